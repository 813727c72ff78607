package audio

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

var percentRe = regexp.MustCompile(`(\d+)\s*%`)

type streamInfo struct {
	ID      int
	Volume  int
	AppName string
}

// Mixer adjusts playback volume through pactl, uniformly across every
// sink input so "increase volume" behaves like a hardware volume key.
type Mixer struct {
	mu      sync.Mutex
	step    int
	premute map[int]int // id -> volume before Mute

	// pactl calls, swapped in tests.
	list func(ctx context.Context) ([]streamInfo, error)
	set  func(ctx context.Context, id, percent int) error
}

// NewMixer builds a pactl-backed mixer. step is the percent change per
// increase/decrease command, 0 for the default of 10.
func NewMixer(step int) *Mixer {
	if step <= 0 {
		step = 10
	}
	return &Mixer{
		step:    step,
		premute: make(map[int]int),
		list:    listSinkInputs,
		set:     setSinkInputVolume,
	}
}

// Increase raises every stream by one step, capped at 150%.
func (m *Mixer) Increase(ctx context.Context) error {
	return m.shift(ctx, m.step)
}

// Decrease lowers every stream by one step, floored at 0%.
func (m *Mixer) Decrease(ctx context.Context) error {
	return m.shift(ctx, -m.step)
}

func (m *Mixer) shift(ctx context.Context, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	streams, err := m.list(ctx)
	if err != nil {
		return err
	}
	for _, s := range streams {
		if err := m.set(ctx, s.ID, clampPercent(s.Volume+delta)); err != nil {
			return fmt.Errorf("set volume id=%d: %w", s.ID, err)
		}
	}
	return nil
}

// Mute silences every stream, remembering each volume so Unmute can restore
// it. Muting twice keeps the first remembered volumes.
func (m *Mixer) Mute(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	streams, err := m.list(ctx)
	if err != nil {
		return err
	}
	for _, s := range streams {
		if _, saved := m.premute[s.ID]; !saved && s.Volume > 0 {
			m.premute[s.ID] = s.Volume
		}
		if err := m.set(ctx, s.ID, 0); err != nil {
			return fmt.Errorf("mute id=%d: %w", s.ID, err)
		}
	}
	return nil
}

// Unmute restores the volumes remembered by Mute. Streams that appeared
// after the mute get the full default volume.
func (m *Mixer) Unmute(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	streams, err := m.list(ctx)
	if err != nil {
		return err
	}
	for _, s := range streams {
		vol, ok := m.premute[s.ID]
		if !ok {
			vol = 100
		}
		if err := m.set(ctx, s.ID, vol); err != nil {
			return fmt.Errorf("unmute id=%d: %w", s.ID, err)
		}
		delete(m.premute, s.ID)
	}
	return nil
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 150 {
		return 150
	}
	return v
}

// --- pactl helpers ---

func listSinkInputs(ctx context.Context) ([]streamInfo, error) {
	out, err := exec.CommandContext(ctx, "pactl", "list", "sink-inputs").Output()
	if err != nil {
		return nil, fmt.Errorf("pactl list sink-inputs: %w", err)
	}
	return parseSinkInputs(string(out)), nil
}

// parseSinkInputs pulls the id, first Volume percentage and application.name
// out of pactl's block-per-stream listing.
func parseSinkInputs(text string) []streamInfo {
	parts := strings.Split(text, "Sink Input #")
	if len(parts) <= 1 {
		return nil
	}

	var res []streamInfo
	for _, block := range parts[1:] {
		newline := strings.IndexByte(block, '\n')
		if newline <= 0 {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSpace(block[:newline]))
		if err != nil {
			continue
		}

		s := streamInfo{ID: id}
		for _, line := range strings.Split(block[newline+1:], "\n") {
			line = strings.TrimSpace(line)
			if strings.HasPrefix(line, "Volume:") && s.Volume == 0 {
				if m := percentRe.FindStringSubmatch(line); len(m) >= 2 {
					if v, err := strconv.Atoi(m[1]); err == nil {
						s.Volume = v
					}
				}
			}
			if strings.HasPrefix(line, "application.name =") && s.AppName == "" {
				if idx := strings.Index(line, "\""); idx >= 0 {
					rest := line[idx+1:]
					if end := strings.Index(rest, "\""); end >= 0 {
						s.AppName = rest[:end]
					}
				}
			}
		}

		if s.Volume == 0 && s.AppName == "" {
			continue
		}
		res = append(res, s)
	}
	return res
}

func setSinkInputVolume(ctx context.Context, id, percent int) error {
	arg := fmt.Sprintf("%d%%", clampPercent(percent))
	return exec.CommandContext(ctx, "pactl", "set-sink-input-volume", strconv.Itoa(id), arg).Run()
}
