package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"github.com/lmittmann/tint"
	log "log/slog"

	"nova/internal/alarm"
	"nova/internal/assist"
	"nova/internal/audio"
	"nova/internal/bus"
	"nova/internal/config"
	"nova/internal/ipc"
	"nova/internal/launcher"
	"nova/internal/mail"
	"nova/internal/nlu"
	"nova/internal/notify"
	"nova/internal/proxy"
	"nova/internal/stt"
	"nova/internal/tts"
	"nova/internal/webapi"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

func main() {
	cfgFile := cli.StringP("config", "c", "", "Config file path")
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	logLevel := cli.StringP("log", "l", "", "Log level")
	cli.Parse()

	godotenv.Load(*envFile)

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		log.Error("Failed to load config", "path", *cfgFile, "err", err)
		os.Exit(1)
	}
	if *logLevel == "" {
		*logLevel = cfg.Log.Level
	}

	log.SetDefault(log.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level: logLevelMap[*logLevel],
	})))

	log.Info("Booting up", "name", cfg.App.Name)

	httpClient, err := proxy.NewHTTPClient(cfg.Proxy.SOCKS, 30*time.Second)
	if err != nil {
		log.Error("Failed to dial socks proxy", "proxy", cfg.Proxy.SOCKS, "err", err)
		os.Exit(1)
	}

	store := alarm.NewStore(cfg.App.DataFile)
	store.Load()

	// The GUI bus doubles as a notice sink; its command handler is bound
	// to the assistant after construction.
	var assistant *assist.Assistant
	hub := bus.NewHub(func(text string) string {
		return assistant.Respond(context.Background(), text)
	})

	notifier := notify.NewNotifier(notify.NewPlayer(),
		notify.LogNotice{}, notify.DesktopNotice{}, hub)

	checker := alarm.NewChecker(store, notifier, cfg.Checker.Interval)
	manager := alarm.NewManager(store, checker, cfg.App.DefaultSound)

	translator := webapi.NewTranslator(cfg.Translate.APIKey, cfg.Translate.BaseURL, httpClient)
	deps := assist.Deps{
		Manager:    manager,
		Weather:    webapi.NewWeather(cfg.Weather.APIKey, cfg.Weather.BaseURL, httpClient),
		News:       webapi.NewNews(cfg.News.APIKey, cfg.News.BaseURL, cfg.News.Country, httpClient),
		Jokes:      webapi.NewJokes(translator),
		Translator: translator,
		Mailer:     mail.NewSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.From, cfg.Mail.Password),
		Launcher:   launcher.New(cfg.Apps),
		Mixer:      audio.NewMixer(cfg.Assistant.VolumeStep),
		Contacts:   cfg.Contacts,
		Language:   cfg.Assistant.Language,

		DictationFile: cfg.Assistant.DictationFile,
	}

	if cfg.Assistant.LLMAPIKey != "" {
		deps.Fallback = nlu.NewFallback(cfg.Assistant.LLMAPIKey, cfg.Assistant.LLMModel, httpClient)
		log.Debug("Loaded LLM fallback", "model", cfg.Assistant.LLMModel)
	}

	if cfg.Assistant.Voice {
		deps.Speaker = tts.NewEngine(cfg.Assistant.Language, cfg.Assistant.SpeechRate)

		rec := audio.NewRecorder()
		if err := rec.Init(); err != nil {
			log.Error("Failed to init audio", "err", err)
			os.Exit(1)
		}
		defer rec.Close()

		whisper, err := stt.NewTranscriber(cfg.Assistant.WhisperModel)
		if err != nil {
			log.Error("Failed to init whisper", "model", cfg.Assistant.WhisperModel, "err", err)
			os.Exit(1)
		}
		defer whisper.Close()

		deps.Listener = assist.NewVoiceListener(rec, whisper, cfg.Assistant.Language, cfg.Assistant.DumpDir)
		log.Debug("Loaded voice pipeline", "model", cfg.Assistant.WhisperModel)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	deps.OnExit = func() { quit <- syscall.SIGTERM }

	assistant = assist.New(deps)

	manager.StartChecker()
	defer manager.StopChecker()

	server, err := ipc.StartServer(cfg.App.SocketPath, func(msg ipc.ControlMessage) ipc.Reply {
		return handleControl(assistant, manager, msg)
	})
	if err != nil {
		log.Error("Failed ipc server", "socket", cfg.App.SocketPath, "err", err)
		os.Exit(1)
	}
	defer server.Close()

	httpSrv := &http.Server{Addr: cfg.Bus.Addr, Handler: hub.Router()}
	go func() {
		log.Info("Bus listening", "addr", cfg.Bus.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Bus server failed", "err", err)
		}
	}()

	log.Info("Boot up - successful")

	<-quit
	log.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	httpSrv.Shutdown(ctx)
}

func handleControl(assistant *assist.Assistant, manager *alarm.Manager, msg ipc.ControlMessage) ipc.Reply {
	switch msg.Cmd {
	case "trigger":
		return ipc.Reply{OK: true, Text: assistant.ListenOnce(context.Background())}
	case "say":
		return ipc.Reply{OK: true, Text: assistant.Respond(context.Background(), msg.Arg)}
	case "checker":
		switch msg.Arg {
		case "start":
			manager.StartChecker()
			return ipc.Reply{OK: true, Text: "checker started"}
		case "stop":
			manager.StopChecker()
			return ipc.Reply{OK: true, Text: "checker stopped"}
		}
		return ipc.Reply{OK: false, Text: "usage: checker start|stop"}
	case "status":
		state := "stopped"
		if manager.CheckerRunning() {
			state = "running"
		}
		return ipc.Reply{OK: true, Text: "checker " + state}
	default:
		log.Warn("Unknown command", "cmd", msg.Cmd)
		return ipc.Reply{OK: false, Text: "unknown command: " + msg.Cmd}
	}
}
