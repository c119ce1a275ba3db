package http

import "github.com/hamzaalmahdi/civitai/pkg/manager"

func init() {
	manager.RegisterControllerPlugin(&NotificationControllerPlugin{})
}
