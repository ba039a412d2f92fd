package viewmodels

import (
	"net/http"

	"github.com/adampresley/adamgokit/rendering"
	internalmodels "github.com/adampresley/sundayalbum/cmd/website/internal/models"
)

type BaseViewModel struct {
	Message            string
	IsError            bool
	IsWarning          bool
	IsHtmx             bool
	JavascriptIncludes []rendering.JavascriptInclude
}

func GetViewerFromContext(r *http.Request) *internalmodels.Viewer {
	if result, ok := r.Context().Value("viewer").(*internalmodels.Viewer); ok {
		return result
	}

	return &internalmodels.Viewer{}
}
