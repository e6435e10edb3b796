// Package bot wires the telebot instance to the handlers. All callback
// payloads funnel through a single dispatcher that parses them into
// typed actions and runs them under the sender's lock.
package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"party-finder-bot/internal/config"
	"party-finder-bot/internal/format"
	"party-finder-bot/internal/handler"
	"party-finder-bot/internal/metrics"
	"party-finder-bot/internal/model"
	"party-finder-bot/internal/pkg/lock"
	"party-finder-bot/internal/service"
	"party-finder-bot/internal/session"
)

// Bot wraps the telebot instance with application dependencies.
type Bot struct {
	bot          *tele.Bot
	cfg          *config.Config
	registration *service.RegistrationService
	sessions     *session.Store
	userLock     *lock.UserLock

	// Handlers
	menuHandler    *handler.MenuHandler
	profileHandler *handler.ProfileHandler
	heroHandler    *handler.HeroHandler
	searchHandler  *handler.SearchHandler
	partyHandler   *handler.PartyHandler
	groupHandler   *handler.GroupHandler
}

// Dependencies holds all the dependencies needed by the bot handlers.
type Dependencies struct {
	Config       *config.Config
	Registration *service.RegistrationService
	Heroes       *service.HeroService
	Parties      *service.PartyService
	Search       *service.SearchService
	Sessions     *session.Store
	UserLock     *lock.UserLock
}

// New creates a new Bot instance with the given dependencies.
func New(deps *Dependencies) (*Bot, error) {
	if deps.Config.Bot.Token == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	pref := tele.Settings{
		Token:  deps.Config.Bot.Token,
		Poller: poller(deps.Config),
	}

	teleBot, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	b := &Bot{
		bot:          teleBot,
		cfg:          deps.Config,
		registration: deps.Registration,
		sessions:     deps.Sessions,
		userLock:     deps.UserLock,
	}

	// Initialize handlers
	b.menuHandler = handler.NewMenuHandler(deps.Registration, deps.Sessions)
	b.profileHandler = handler.NewProfileHandler(deps.Registration, deps.Sessions)
	b.heroHandler = handler.NewHeroHandler(deps.Heroes, deps.Sessions)
	b.searchHandler = handler.NewSearchHandler(deps.Search, deps.Sessions)
	b.partyHandler = handler.NewPartyHandler(deps.Parties, deps.Heroes, deps.Registration, deps.Sessions, deps.Config.Bot.GroupChatID)
	b.groupHandler = handler.NewGroupHandler(deps.Registration, deps.Search)

	b.registerMiddleware()
	b.registerHandlers()

	return b, nil
}

// poller picks webhook delivery when a public URL is configured and
// falls back to long polling otherwise.
func poller(cfg *config.Config) tele.Poller {
	if cfg.Bot.WebhookURL != "" {
		return &tele.Webhook{
			Listen:   cfg.Bot.WebhookListen,
			Endpoint: &tele.WebhookEndpoint{PublicURL: cfg.Bot.WebhookURL},
		}
	}
	return &tele.LongPoller{Timeout: 10 * time.Second}
}

// registerMiddleware registers all middleware.
func (b *Bot) registerMiddleware() {
	b.bot.Use(RecoveryMiddleware())
	b.bot.Use(GroupGateMiddleware(b.cfg))
	b.bot.Use(LoggingMiddleware())
}

// registerHandlers registers all command, text and callback handlers.
func (b *Bot) registerHandlers() {
	b.bot.Handle("/start", b.handleStart)

	// Group lookup commands. /main is the older name for /info and is
	// kept for users with the old command memorized.
	b.bot.Handle("/info", b.groupHandler.HandleInfo)
	b.bot.Handle("/main", b.groupHandler.HandleInfo)
	b.bot.Handle("/hero", b.groupHandler.HandleHero)

	// Free text: registration pipeline, field edits, search queries and
	// reply keyboard buttons in private; party applications in the group.
	b.bot.Handle(tele.OnText, b.handleText)

	// Single callback dispatcher for every inline button.
	b.bot.Handle(tele.OnCallback, b.handleCallback)
}

// handleStart begins or resumes onboarding. Groups ignore it.
func (b *Bot) handleStart(c tele.Context) error {
	if c.Chat() == nil || c.Chat().Type != tele.ChatPrivate {
		return nil
	}
	sender := c.Sender()
	return b.userLock.WithLock(sender.ID, func() error {
		user, err := b.ensureUser(c)
		if err != nil {
			return err
		}
		return b.menuHandler.HandleStart(c, user)
	})
}

// handleText routes a plain text message by chat type and session state.
func (b *Bot) handleText(c tele.Context) error {
	chat := c.Chat()
	sender := c.Sender()
	if chat == nil || sender == nil || sender.IsBot {
		return nil
	}

	metrics.UpdatesTotal.WithLabelValues("text").Inc()

	// In the group the only text the bot reacts to is an application
	// reply under a roster message.
	if chat.Type != tele.ChatPrivate {
		return b.partyHandler.HandleGroupMessage(c)
	}

	return b.userLock.WithLock(sender.ID, func() error {
		user, err := b.ensureUser(c)
		if err != nil {
			return err
		}

		if user.RegistrationStep == model.StepLanguage {
			return c.Send(format.MsgChooseLanguage(), format.LanguageKeyboard(user.Language))
		}
		if !user.Registered() {
			return b.profileHandler.HandlePipelineInput(c, user)
		}

		state, err := b.sessions.Get(context.Background(), sender.ID)
		if err != nil {
			log.Error().Err(err).Int64("user_id", sender.ID).Msg("Failed to load session")
		}
		if state != nil {
			switch state.Kind {
			case session.KindProfileEdit:
				return b.profileHandler.HandleEditInput(c, user, state)
			case session.KindHeroEdit:
				return b.heroHandler.HandleStatInput(c, user, state)
			case session.KindGlobalSearch:
				return b.searchHandler.HandleQuery(c, user, state)
			}
		}

		switch strings.TrimSpace(c.Text()) {
		case "ЛК", "Profile":
			return b.profileHandler.ShowProfile(c, user)
		case "Герои", "Heroes":
			return b.heroHandler.ShowClasses(c, user)
		case "Поиск", "Search":
			return b.searchHandler.ShowMenu(c, user)
		case "Настройки", "Settings":
			return b.menuHandler.ShowSettings(c, user)
		}
		if strings.HasPrefix(strings.TrimSpace(c.Text()), "/") {
			return c.Send(format.MsgUnknownCommand)
		}
		return c.Send(format.MsgUseMenu(user.Language))
	})
}

// handleCallback parses the pressed button into an action and dispatches
// it under the sender's lock.
func (b *Bot) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		return nil
	}
	metrics.UpdatesTotal.WithLabelValues("callback").Inc()

	// Buttons built with markup.Data carry the payload in Unique; raw
	// callback data keeps a \f prefix instead.
	payload := callback.Unique
	if payload == "" {
		payload = strings.TrimPrefix(callback.Data, "\f")
	}

	action, ok := ParseAction(payload)
	if !ok {
		log.Debug().Str("payload", payload).Msg("Unknown callback payload")
		return c.Respond()
	}

	sender := c.Sender()
	return b.userLock.WithLock(sender.ID, func() error {
		user, err := b.ensureUser(c)
		if err != nil {
			return err
		}

		defer func() {
			if err := c.Respond(); err != nil {
				log.Debug().Err(err).Msg("Failed to answer callback")
			}
		}()

		// Until registration completes the only button that works is
		// the language chooser.
		if !user.Registered() {
			if langAction, ok := action.(LanguageAction); ok {
				return b.menuHandler.HandleLanguage(c, user, langAction.Lang)
			}
			return nil
		}
		return b.dispatch(c, user, action)
	})
}

// dispatch maps one parsed action to its handler.
func (b *Bot) dispatch(c tele.Context, user *model.User, action Action) error {
	switch a := action.(type) {
	case MenuAction:
		switch a.Menu {
		case MenuMain:
			return b.menuHandler.ShowMain(c, user)
		case MenuProfile:
			return b.profileHandler.ShowProfile(c, user)
		case MenuHeroes:
			return b.heroHandler.ShowClasses(c, user)
		case MenuSearch:
			return b.searchHandler.ShowMenu(c, user)
		case MenuSettings:
			return b.menuHandler.ShowSettings(c, user)
		case MenuGlobalSearch:
			return b.searchHandler.ShowFields(c, user)
		case MenuPartySearch:
			return b.partyHandler.StartWizard(c, user)
		}
		return nil

	case LanguageAction:
		return b.menuHandler.HandleLanguage(c, user, a.Lang)

	case ProfileEditMenuAction:
		return b.profileHandler.ShowEditMenu(c, user)
	case ProfileEditFieldAction:
		return b.profileHandler.StartFieldEdit(c, user, a.Field)

	case HeroClassAction:
		return b.heroHandler.ShowClass(c, user, a.ClassID)
	case HeroAddMenuAction:
		return b.heroHandler.ShowAddMenu(c, user, a.ClassID)
	case HeroAddConfirmAction:
		return b.heroHandler.HandleAdd(c, user, a.ClassID, a.HeroID)
	case HeroEditAction:
		return b.heroHandler.ShowHero(c, user, a.ClassID, a.HeroID)
	case HeroFieldAction:
		return b.heroHandler.StartStatEdit(c, user, a.Field, a.ClassID, a.HeroID)
	case SetPrimaryAction:
		return b.heroHandler.HandleSetPrimary(c, user, a.ClassID, a.HeroID)

	case SearchFieldAction:
		return b.searchHandler.StartSearch(c, user, a.Field)
	case SearchPageAction:
		return b.searchHandler.HandlePage(c, user, a.Page)

	case PartyModeAction:
		return b.partyHandler.HandleMode(c, user, a.Mode)
	case PartyPlayersAction:
		return b.partyHandler.HandlePlayers(c, user, a.Count)
	case PartyClassAction:
		return b.partyHandler.HandleClass(c, user, a.ClassID)
	case PartyHeroAction:
		return b.partyHandler.HandleHero(c, user, a.ClassID, a.HeroID)
	case PartyDecisionAction:
		return b.partyHandler.HandleDecision(c, user, a.Accept, a.ShortID, a.ApplicantID, a.HeroID)
	}
	return nil
}

// ensureUser loads or creates the sender's record, refreshing the stored
// username. Errors are reported to the user in Russian because the
// preference is unknown at this point.
func (b *Bot) ensureUser(c tele.Context) (*model.User, error) {
	sender := c.Sender()
	var username *string
	if sender.Username != "" {
		username = &sender.Username
	}
	user, _, err := b.registration.EnsureUser(context.Background(), sender.ID, username)
	if err != nil {
		log.Error().Err(err).Int64("user_id", sender.ID).Msg("Failed to load user")
		return nil, c.Send(format.MsgError(model.LangRU))
	}
	return user, nil
}

// Start starts receiving updates.
func (b *Bot) Start() {
	log.Info().Msg("Starting bot...")
	b.bot.Start()
}

// Stop stops the bot gracefully.
func (b *Bot) Stop() {
	log.Info().Msg("Stopping bot...")
	b.bot.Stop()
}

// GetBot returns the underlying telebot instance.
func (b *Bot) GetBot() *tele.Bot {
	return b.bot
}
