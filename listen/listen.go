// Package listen captures microphone audio as fixed-length WAV windows.
package listen

import (
	"context"
	"fmt"
	"sync"
	"time"

	pvrecorder "github.com/Picovoice/pvrecorder/binding/go"
	"github.com/go-audio/wav"
	"go.uber.org/zap"
)

const (
	frameLength    = 512
	bufferedFrames = 10
)

// Listener owns one capture device and slices the incoming audio into
// windows of Window length, each delivered on WavCh as a complete WAV file.
type Listener struct {
	WavCh chan []byte

	name     string
	window   time.Duration
	bitDepth int
	numChans int
	deviceID int
	log      *zap.Logger

	mu     sync.Mutex
	stopCh chan struct{}
	active bool
}

func New(window time.Duration) *Listener {
	return &Listener{
		WavCh:    make(chan []byte, 1),
		name:     "listener",
		window:   window,
		bitDepth: 16,
		numChans: 1,
		deviceID: -1,
		stopCh:   make(chan struct{}),
		log:      zap.NewNop(),
	}
}

func (l *Listener) SetLogger(log *zap.Logger) {
	l.log = log
}

func (l *Listener) SetName(name string) {
	l.name = name
}

func (l *Listener) Active() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}

// Devices returns available capture devices by name.
func Devices() (map[string]int, error) {
	names, err := pvrecorder.GetAvailableDevices()
	if err != nil {
		return nil, fmt.Errorf("list audio devices: %w", err)
	}
	devices := make(map[string]int, len(names))
	for i, n := range names {
		devices[n] = i
	}
	return devices, nil
}

// SetMicrophone selects the capture device by name. Default is the system
// microphone.
func (l *Listener) SetMicrophone(name string) error {
	devices, err := Devices()
	if err != nil {
		return err
	}
	if id, ok := devices[name]; ok {
		l.deviceID = id
		return nil
	}
	return ErrNotFoundDevice
}

// Start opens the capture device and begins emitting windows. The device is
// opened synchronously so permission and busy-device failures surface here.
func (l *Listener) Start(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.active {
		return ErrAlreadyActive
	}

	recorder := &pvrecorder.PvRecorder{
		DeviceIndex:         l.deviceID,
		FrameLength:         frameLength,
		BufferedFramesCount: bufferedFrames,
	}
	if err := recorder.Init(); err != nil {
		return fmt.Errorf("init recorder: %w", err)
	}
	if err := recorder.Start(); err != nil {
		recorder.Delete()
		return fmt.Errorf("start recorder: %w", err)
	}
	l.log.Debug(l.name+": capture started", zap.String("device", recorder.GetSelectedDevice()))

	l.active = true
	l.stopCh = make(chan struct{})

	go l.run(ctx, recorder, l.stopCh)

	return nil
}

// Stop ends capture. Safe to call when not active, and from any goroutine.
func (l *Listener) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.active {
		return
	}
	l.log.Debug(l.name + ": stop")
	l.active = false
	close(l.stopCh)
}

func (l *Listener) run(ctx context.Context, recorder *pvrecorder.PvRecorder, stopCh chan struct{}) {
	defer recorder.Delete()

	out := &WriterSeeker{}
	enc := wav.NewEncoder(out, pvrecorder.SampleRate, l.bitDepth, l.numChans, 1)
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()

	flush := func() []byte {
		enc.Close()
		b := out.buf.Bytes()
		out = &WriterSeeker{}
		enc = wav.NewEncoder(out, pvrecorder.SampleRate, l.bitDepth, l.numChans, 1)
		return b
	}

	emit := func(b []byte) {
		select {
		case l.WavCh <- b:
		case <-stopCh:
		case <-ctx.Done():
		}
	}

	for {
		select {
		case <-ctx.Done():
			l.log.Debug(l.name + ": context done")
			return

		case <-stopCh:
			return

		case <-ticker.C:
			emit(flush())

		default:
			pcm, err := recorder.Read()
			if err != nil {
				l.log.Error(l.name+": read", zap.Error(err))
				continue
			}
			for _, f := range pcm {
				if err := enc.WriteFrame(f); err != nil {
					l.log.Error(l.name+": encode frame", zap.Error(err))
				}
			}
		}
	}
}
