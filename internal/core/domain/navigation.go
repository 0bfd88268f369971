package domain

// Route names a screen of the application.
type Route string

const (
	RouteLogin         Route = "login"
	RouteRegister      Route = "register"
	RouteAdmin         Route = "admin"
	RouteRegisterUser  Route = "register-user"
	RouteUsers         Route = "users"
	RouteNutritionist  Route = "nutritionist"
	RouteGenerateSlots Route = "generate-slots"
	RouteSlots         Route = "slots"
	RouteDashboard     Route = "dashboard"
	RouteBook          Route = "book"
	RouteHistory       Route = "history"
	RouteProfile       Route = "profile"
	RouteLogout        Route = "logout"
)

// LandingRoute returns the initial route for a role. Unknown roles land on
// the patient dashboard.
func LandingRoute(r Role) Route {
	switch r {
	case RoleAdministrator:
		return RouteAdmin
	case RoleNutritionist:
		return RouteNutritionist
	default:
		return RouteDashboard
	}
}

// Platform is the rendering target.
type Platform string

const (
	PlatformWeb    Platform = "web"
	PlatformNative Platform = "native"
)

// Chrome is the navigation container a layout is rendered in.
type Chrome string

const (
	ChromeNone   Chrome = "none"
	ChromeDrawer Chrome = "drawer"
	ChromeTabs   Chrome = "tabs"
)

// Screen is one navigable entry.
type Screen struct {
	Route Route  `json:"route"`
	Title string `json:"title"`
	Icon  string `json:"icon"`
}

// Layout is the screen graph offered to the current user.
type Layout struct {
	Chrome  Chrome   `json:"chrome"`
	Initial Route    `json:"initial"`
	Screens []Screen `json:"screens"`
}

var (
	screenProfile = Screen{Route: RouteProfile, Title: "Perfil", Icon: "account-circle"}
	screenLogout  = Screen{Route: RouteLogout, Title: "Cerrar sesión", Icon: "logout"}
)

var roleScreens = map[Role][]Screen{
	RoleAdministrator: {
		{Route: RouteAdmin, Title: "Panel de Administrador", Icon: "account-group"},
		{Route: RouteRegisterUser, Title: "Registrar usuario", Icon: "account-plus"},
		{Route: RouteUsers, Title: "Usuarios", Icon: "account-multiple"},
		screenProfile,
		screenLogout,
	},
	RoleNutritionist: {
		{Route: RouteNutritionist, Title: "Nutricionista", Icon: "account-heart"},
		{Route: RouteGenerateSlots, Title: "Generar turnos", Icon: "calendar-plus"},
		{Route: RouteSlots, Title: "Ver turnos", Icon: "calendar-month"},
		screenProfile,
		screenLogout,
	},
	RolePatient: {
		{Route: RouteDashboard, Title: "Inicio", Icon: "view-dashboard"},
		{Route: RouteBook, Title: "Reservar cita", Icon: "calendar-plus"},
		{Route: RouteHistory, Title: "Historial de citas", Icon: "history"},
		screenProfile,
		screenLogout,
	},
}

// Navigation chooses the screen graph for the current authentication state.
// Web renders a drawer, native renders a tab bar.
func Navigation(s Session, p Platform) Layout {
	if s.IsZero() {
		return Layout{
			Chrome:  ChromeNone,
			Initial: RouteLogin,
			Screens: []Screen{
				{Route: RouteLogin, Title: "Iniciar sesión", Icon: "login"},
				{Route: RouteRegister, Title: "Registro", Icon: "account-plus"},
			},
		}
	}

	role := s.User.Role
	screens, ok := roleScreens[role]
	if !ok {
		screens = roleScreens[RolePatient]
	}
	chrome := ChromeTabs
	if p == PlatformWeb {
		chrome = ChromeDrawer
	}
	out := make([]Screen, len(screens))
	copy(out, screens)
	return Layout{Chrome: chrome, Initial: LandingRoute(role), Screens: out}
}

// Allows reports whether the layout exposes route.
func (l Layout) Allows(r Route) bool {
	for _, s := range l.Screens {
		if s.Route == r {
			return true
		}
	}
	return false
}
