package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	vol "github.com/itchyny/volume-go"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/EverettNC/ALPHAWOLF-sub001/logger"
	"github.com/EverettNC/ALPHAWOLF-sub001/notify"
	"github.com/EverettNC/ALPHAWOLF-sub001/player"
	"github.com/EverettNC/ALPHAWOLF-sub001/prefs"
	"github.com/EverettNC/ALPHAWOLF-sub001/recognize"
	"github.com/EverettNC/ALPHAWOLF-sub001/router"
	"github.com/EverettNC/ALPHAWOLF-sub001/speech"
	"github.com/EverettNC/ALPHAWOLF-sub001/voicecontrol"
)

func main() {
	_ = godotenv.Load()

	lgr, err := logger.New()
	if err != nil {
		log.Fatal(err)
	}
	defer lgr.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	recognizer := recognize.NewClient(Getenv("VOSK_URL", "ws://127.0.0.1:2700"))
	recognizer.SetLogger(lgr)

	source := recognize.NewMicSource(ctx, recognizer)
	source.SetLogger(lgr)
	source.SetConfig(recognize.MicConfig{
		Window:          500 * time.Millisecond,
		MaxEmptyWindows: 20,
		Microphone:      os.Getenv("MICROPHONE"),
	})

	synth := speech.NewClient(os.Getenv("YANDEX_API_KEY"), os.Getenv("YANDEX_FOLDER_ID"))
	synth.SetLogger(lgr)

	backend, err := router.New(&router.Config{
		BaseURL: Getenv("COMMAND_ROUTER_URL", "http://127.0.0.1:8080"),
	})
	if err != nil {
		log.Fatal(err)
	}

	ctrl := voicecontrol.New(ctx)
	ctrl.SetLogger(lgr)
	ctrl.SetSource(source)
	ctrl.SetSynthesizer(synth)
	ctrl.SetPlayer(player.Play)
	ctrl.SetNotifier(notify.New(true))
	ctrl.SetMuteStore(prefs.New(Getenv("PREFS_DIR", "./settings")))
	ctrl.SetConfig(voicecontrol.Config{
		WakePrefix:          Getenv("WAKE_PREFIX", "alpha"),
		ContinuousListening: true,
		AutoStart:           true,
		Language:            Getenv("LANGUAGE", "en-US"),
	})

	registerCommands(ctx, ctrl, backend, lgr)

	lgr.Info("starting alphawolf voice control")
	if err := ctrl.Init(); err != nil {
		log.Fatal(err)
	}
	defer ctrl.Close()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sigs

	lgr.Info("shutting down")
}

func registerCommands(ctx context.Context, ctrl *voicecontrol.Controller, backend *router.Client, lgr *zap.Logger) {
	say := func(text string) {
		if err := ctrl.Speak(text); err != nil {
			lgr.Error("speak", zap.Error(err))
		}
	}

	ctrl.RegisterCommand("what time is it", func() {
		say("it is " + time.Now().Format(time.Kitchen))
	})

	ctrl.RegisterCommand("volume up", func() { changeVolume(lgr, +10) })
	ctrl.RegisterCommand("volume down", func() { changeVolume(lgr, -10) })

	ctrl.RegisterCommand("stop listening", func() {
		say("going quiet")
		ctrl.Mute()
	})

	// interpreted by the command-router backend; the controller only relays
	routed := func(intent string) voicecontrol.CommandFunc {
		return func() {
			reply, err := backend.Send(ctx, intent)
			if err != nil {
				lgr.Error("command router", zap.String("intent", intent), zap.Error(err))
				say("that did not work")
				return
			}
			if reply != "" {
				say(reply)
			}
		}
	}
	ctrl.RegisterCommand("turn on lights", routed("lights on"))
	ctrl.RegisterCommand("turn off lights", routed("lights off"))
	ctrl.RegisterCommand("lock the door", routed("door lock"))
}

func changeVolume(lgr *zap.Logger, delta int) {
	cur, err := vol.GetVolume()
	if err != nil {
		lgr.Error("get volume", zap.Error(err))
		return
	}
	target := min(max(cur+delta, 0), 100)
	if err := vol.SetVolume(target); err != nil {
		lgr.Error("set volume", zap.Error(err))
		return
	}
	lgr.Info("volume changed", zap.Int("from", cur), zap.Int("to", target))
}

// Getenv returns the environment value or a default when unset.
func Getenv(key string, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}
