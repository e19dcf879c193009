package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/Rorical/RoriBoard/internal/core"
	"github.com/Rorical/RoriBoard/internal/dispatcher"
	"github.com/Rorical/RoriBoard/internal/eventbus"
	"github.com/Rorical/RoriBoard/internal/models"
	"github.com/Rorical/RoriBoard/internal/update"
)

// Application manages the complete application lifecycle
type Application struct {
	env        *Environment
	eventBus   *eventbus.EventBus
	dispatcher *dispatcher.EventDispatcher
	service    *core.BoardService
	model      *AppModel
}

type AppModel struct {
	appModel   models.AppModel
	widgets    *update.Widgets
	dispatcher *dispatcher.EventDispatcher
	profile    string
}

func NewApplication(ctx context.Context, opts Options) (*Application, error) {
	env, err := Open(ctx, opts)
	if err != nil {
		return nil, err
	}

	eb := eventbus.NewEventBus()
	eb.SetErrorCallback(func(err eventbus.EventBusError) {
		env.Logger.Warn("event bus", zap.String("op", err.Operation), zap.Error(err.Err))
	})

	disp := dispatcher.NewEventDispatcher(eb)
	service := core.NewBoardService(env.Config, env.Client, eb, env.Logger)

	model := &AppModel{
		appModel:   createInitialAppModel(),
		widgets:    update.NewWidgets(),
		dispatcher: disp,
		profile:    env.Config.ActiveProfile,
	}

	return &Application{
		env:        env,
		eventBus:   eb,
		dispatcher: disp,
		service:    service,
		model:      model,
	}, nil
}

func (app *Application) Start() error {
	app.service.Start()

	p := tea.NewProgram(app.model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (app *Application) Stop() {
	app.service.Stop()
	app.dispatcher.Stop()
	app.eventBus.Close()
	if err := app.env.Close(); err != nil {
		app.env.Logger.Warn("close environment", zap.Error(err))
	}
}

func createInitialAppModel() models.AppModel {
	// board data comes from core snapshots
	return models.AppModel{
		View:    models.ListView,
		Posts:   make([]models.Post, 0),
		Status:  "Ready",
		Loading: true,
	}
}
