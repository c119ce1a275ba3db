package manager

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/hamzaalmahdi/civitai/pkg/logger"
)

type (
	// ControllerPlugin creates a controller on demand; implementations
	// register themselves from init() so route assembly stays declarative.
	ControllerPlugin interface {
		Name() string
		MustCreateController() Controller
	}

	// Controller attaches its routes to the four route classes the service
	// exposes. A controller with nothing to offer in a class registers an
	// empty method.
	Controller interface {
		RegisterOpenApi(group *gin.RouterGroup)
		RegisterInnerApi(group *gin.RouterGroup)
		RegisterDebugApi(group *gin.RouterGroup)
		RegisterOpsApi(group *gin.RouterGroup)
	}
)

var controllerPlugins = map[string]ControllerPlugin{}

// RegisterControllerPlugin adds a plugin to the registry. Name collisions are
// a programming error and panic at startup.
func RegisterControllerPlugin(p ControllerPlugin) {
	if p.Name() == "" {
		panic(fmt.Errorf("%T: empty plugin name", p))
	}
	if existing, ok := controllerPlugins[p.Name()]; ok {
		panic(fmt.Errorf("%T and %T share the name %q", p, existing, p.Name()))
	}
	controllerPlugins[p.Name()] = p
}

// MustInitControllers instantiates every registered plugin and attaches its
// routes to the given groups; a nil group skips that route class.
func MustInitControllers(openApiGroup, innerApiGroup, debugApiGroup, opsApiGroup *gin.RouterGroup) {
	for name, p := range controllerPlugins {
		controller := p.MustCreateController()
		if openApiGroup != nil {
			controller.RegisterOpenApi(openApiGroup)
		}
		if innerApiGroup != nil {
			controller.RegisterInnerApi(innerApiGroup)
		}
		if debugApiGroup != nil {
			controller.RegisterDebugApi(debugApiGroup)
		}
		if opsApiGroup != nil {
			controller.RegisterOpsApi(opsApiGroup)
		}
		logger.Infof("controller registered, plugin=%s", name)
	}
}
