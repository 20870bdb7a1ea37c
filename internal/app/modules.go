package app

import (
	"fmt"

	"github.com/yungbote/relaybot/internal/modules/dispatch"
	"github.com/yungbote/relaybot/internal/platform/logger"
)

type Modules struct {
	Dispatcher *dispatch.Dispatcher
}

func wireModules(log *logger.Logger, reposet Repos, clients Clients) (Modules, error) {
	log.Info("Wiring modules...")

	deps := dispatch.Deps{
		Log:       log,
		Transport: clients.Bot,
		AI:        clients.Assistant,
		Search:    clients.Search,
		Users:     reposet.UserProfile,
		Chats:     reposet.ChatRecord,
		Files:     reposet.FileRecord,
		Searches:  reposet.SearchRecord,
	}
	if clients.ActivityBus != nil {
		deps.Publisher = clients.ActivityBus
	}
	d, err := dispatch.New(deps)
	if err != nil {
		return Modules{}, fmt.Errorf("init dispatcher: %w", err)
	}
	return Modules{Dispatcher: d}, nil
}
