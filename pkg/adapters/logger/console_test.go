package logger

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/user/pagecast/pkg/ports"
)

func TestConsoleLogger_Levels(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewConsoleWriter(ports.LevelInfo, &out, &errOut, false)

	l.Debug("hidden %d", 1)
	l.Info("shown %d", 2)
	l.Warn("careful %d", 3)
	l.Error("broken %d", 4)

	if strings.Contains(out.String(), "hidden") {
		t.Error("debug message should be filtered at info level")
	}
	if out.String() != "shown 2\n" {
		t.Errorf("unexpected stdout %q", out.String())
	}
	if errOut.String() != "careful 3\nbroken 4\n" {
		t.Errorf("unexpected stderr %q", errOut.String())
	}
}

func TestConsoleLogger_Quiet(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewConsoleWriter(ports.LevelQuiet, &out, &errOut, false)

	l.Error("nothing %s", "here")
	if out.Len()+errOut.Len() != 0 {
		t.Error("quiet level must suppress everything")
	}
}

func TestConsoleLogger_Component(t *testing.T) {
	var out bytes.Buffer
	root := NewConsoleWriter(ports.LevelDebug, &out, &out, false)

	root.WithComponent("capture").Debug("tick %d", 7)
	root.Info("plain")

	want := "[capture] tick 7\nplain\n"
	if out.String() != want {
		t.Errorf("expected %q, got %q", want, out.String())
	}
}

func TestConsoleLogger_Color(t *testing.T) {
	var out bytes.Buffer
	l := NewConsoleWriter(ports.LevelDebug, &out, &out, true).WithComponent("encoder")

	l.Warn("slow %s", "pipe")

	line := out.String()
	if !strings.HasPrefix(line, colorYellow) || !strings.Contains(line, colorCyan+"[encoder]") {
		t.Errorf("expected colored warning, got %q", line)
	}
}

func TestConsoleLogger_Concurrent(t *testing.T) {
	var out bytes.Buffer
	root := NewConsoleWriter(ports.LevelDebug, &out, &out, false)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			l := root.WithComponent("worker")
			for j := 0; j < 50; j++ {
				l.Debug("line %d-%d", i, j)
			}
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if len(lines) != 400 {
		t.Fatalf("expected 400 lines, got %d", len(lines))
	}
	for _, line := range lines {
		if !strings.HasPrefix(line, "[worker] line ") {
			t.Fatalf("interleaved output %q", line)
		}
	}
}
