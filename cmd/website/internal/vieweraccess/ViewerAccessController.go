package vieweraccess

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/adamgokit/sessions"
	internalmodels "github.com/adampresley/sundayalbum/cmd/website/internal/models"
	"github.com/adampresley/sundayalbum/cmd/website/internal/viewmodels"
)

type ViewerAccessControllerConfig struct {
	Renderer       rendering.TemplateRenderer
	SessionService sessions.Session[*internalmodels.Viewer]
	ViewPassword   string
}

/*
ViewerAccessController gates the whole site behind the view password.
This is a soft deterrent for a family site, not a security boundary.
*/
type ViewerAccessController struct {
	renderer       rendering.TemplateRenderer
	sessionService sessions.Session[*internalmodels.Viewer]
	viewPassword   string
}

func NewViewerAccessController(config ViewerAccessControllerConfig) ViewerAccessController {
	return ViewerAccessController{
		renderer:       config.Renderer,
		sessionService: config.SessionService,
		viewPassword:   config.ViewPassword,
	}
}

/*
GET /login
*/
func (c ViewerAccessController) LoginPage(w http.ResponseWriter, r *http.Request) {
	viewData := viewmodels.ViewerLogin{
		BaseViewModel: viewmodels.BaseViewModel{
			IsHtmx: httphelpers.IsHtmx(r),
		},
	}

	c.renderer.Render("pages/login", viewData, w)
}

/*
POST /login
*/
func (c ViewerAccessController) LoginAction(w http.ResponseWriter, r *http.Request) {
	var (
		err error
	)

	password := httphelpers.GetFromRequest[string](r, "password")

	if password != c.viewPassword {
		viewData := viewmodels.ViewerLogin{
			BaseViewModel: viewmodels.BaseViewModel{
				IsHtmx:    httphelpers.IsHtmx(r),
				IsWarning: true,
				Message:   "Your password was not correct. Please try again.",
			},
		}

		c.renderer.Render("pages/login", viewData, w)
		return
	}

	viewer := &internalmodels.Viewer{GrantedAt: time.Now()}

	if err = c.sessionService.Set(r, viewer); err != nil {
		slog.Error("error setting viewer session", "error", err)
	}

	if err = c.sessionService.Save(w, r); err != nil {
		slog.Error("error saving session", "error", err)
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

/*
GET /logout
*/
func (c ViewerAccessController) LogoutAction(w http.ResponseWriter, r *http.Request) {
	_ = c.sessionService.Destroy(w, r)
	_ = c.sessionService.Save(w, r)
	http.Redirect(w, r, "/login", http.StatusFound)
}
