package server

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("GET "+RouteUniqueLogin, ChainMiddleware(s.UniqueLoginHandler(), s.standardMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteDashboard, ChainMiddleware(s.DashboardHandler(), s.standardMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteLogin, ChainMiddleware(s.LoginDeniedHandler(), s.standardMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())
}
