package routeauth

import "github.com/peoplehub/hrms-api/internal/core/domain"

// Route keys of the HR dashboard.
const (
	RouteLogin          = "login"
	RouteDashboard      = "dashboard"
	RouteEmployees      = "employees"
	RouteRecruitment    = "recruitment"
	RouteCandidates     = "candidates"
	RouteInterviews     = "interviews"
	RouteLeaves         = "leaves"
	RouteLeaveApprovals = "leave-approvals"
	RouteAttendance     = "attendance"
	RoutePayroll        = "payroll"
	RoutePerformance    = "performance"
	RouteReports        = "reports"
	RouteSettings       = "settings"
	RouteUsers          = "users"
)

// LandingRoute is where unauthorized navigation is redirected.
const LandingRoute = RouteDashboard

// DefaultRoutes returns a fresh copy of the built-in route table.
// "profile" and other personal pages are intentionally unregistered.
func DefaultRoutes() map[string][]domain.Role {
	all := []domain.Role{domain.RoleAdmin, domain.RoleHR, domain.RoleManager, domain.RoleEmployee}
	staff := []domain.Role{domain.RoleAdmin, domain.RoleHR, domain.RoleManager}
	hr := []domain.Role{domain.RoleAdmin, domain.RoleHR}
	admin := []domain.Role{domain.RoleAdmin}

	return map[string][]domain.Role{
		RouteDashboard:      all,
		RouteEmployees:      staff,
		RouteRecruitment:    hr,
		RouteCandidates:     staff,
		RouteInterviews:     staff,
		RouteLeaves:         all,
		RouteLeaveApprovals: staff,
		RouteAttendance:     all,
		RoutePayroll:        hr,
		RoutePerformance:    staff,
		RouteReports:        hr,
		RouteSettings:       admin,
		RouteUsers:          admin,
	}
}
