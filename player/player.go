// Package player plays synthesized audio on the system output device.
package player

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
)

// Play sniffs the container format and plays the audio, blocking until
// playback finishes or ctx is cancelled.
func Play(ctx context.Context, b []byte) error {
	switch {
	case len(b) < 4:
		return fmt.Errorf("audio data too short: %d bytes", len(b))
	case bytes.HasPrefix(b, []byte("RIFF")):
		return PlayWavFromBytes(ctx, b)
	case bytes.HasPrefix(b, []byte("OggS")):
		return PlayOggFromBytes(ctx, b)
	default:
		return PlayMp3FromBytes(ctx, b)
	}
}

func PlayWavFromBytes(ctx context.Context, b []byte) error {
	streamer, format, err := wav.Decode(bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("decode wav: %w", err)
	}
	defer streamer.Close()
	return playstream(ctx, streamer, format)
}

func PlayOggFromBytes(ctx context.Context, b []byte) error {
	streamer, format, err := vorbis.Decode(io.NopCloser(bytes.NewReader(b)))
	if err != nil {
		return fmt.Errorf("decode ogg: %w", err)
	}
	defer streamer.Close()
	return playstream(ctx, streamer, format)
}

func PlayMp3FromBytes(ctx context.Context, b []byte) error {
	streamer, format, err := mp3.Decode(io.NopCloser(bytes.NewReader(b)))
	if err != nil {
		return fmt.Errorf("decode mp3: %w", err)
	}
	defer streamer.Close()
	return playstream(ctx, streamer, format)
}

func playstream(ctx context.Context, streamer beep.StreamSeekCloser, format beep.Format) error {
	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(streamer, beep.Callback(func() {
		close(done)
	})))

	select {
	case <-done:
	case <-ctx.Done():
		speaker.Close()
	}

	return nil
}
