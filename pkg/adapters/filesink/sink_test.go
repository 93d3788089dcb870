package filesink

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/user/pagecast/pkg/mocks"
	"github.com/user/pagecast/pkg/ports"
)

var testBaseDir = filepath.Join("debug")

func TestSink_Enabled(t *testing.T) {
	if !New(testBaseDir, mocks.NewFileSystem()).Enabled() {
		t.Error("expected Enabled to return true")
	}
}

func TestSink_SaveRawFrame(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New(testBaseDir, fs)

	if err := sink.SaveRawFrame(3, ports.FormatJPEG, []byte{0xff, 0xd8}); err != nil {
		t.Fatalf("SaveRawFrame failed: %v", err)
	}
	if err := sink.SaveRawFrame(12, ports.FormatPNG, []byte{0x89}); err != nil {
		t.Fatalf("SaveRawFrame failed: %v", err)
	}

	jpgPath := filepath.Join(testBaseDir, "frames", "raw", "frame-0003.jpg")
	if data, ok := fs.GetFile(jpgPath); !ok || len(data) != 2 {
		t.Errorf("expected jpeg frame at %s", jpgPath)
	}
	pngPath := filepath.Join(testBaseDir, "frames", "raw", "frame-0012.png")
	if _, ok := fs.GetFile(pngPath); !ok {
		t.Errorf("expected png frame at %s", pngPath)
	}
	if !fs.HasDir(filepath.Join(testBaseDir, "frames", "raw")) {
		t.Error("expected raw frame directory to be created")
	}
}

func TestSink_SaveJSON(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New(testBaseDir, fs)

	if err := sink.SaveSessionJSON([]byte(`{"flushes":2}`)); err != nil {
		t.Fatalf("SaveSessionJSON failed: %v", err)
	}
	if err := sink.SaveConfigJSON([]byte(`{"fps":25}`)); err != nil {
		t.Fatalf("SaveConfigJSON failed: %v", err)
	}

	if data, _ := fs.GetFile(filepath.Join(testBaseDir, "session.json")); string(data) != `{"flushes":2}` {
		t.Errorf("unexpected session.json %q", data)
	}
	if data, _ := fs.GetFile(filepath.Join(testBaseDir, "config.json")); string(data) != `{"fps":25}` {
		t.Errorf("unexpected config.json %q", data)
	}
}

func TestSink_PropagatesWriteErrors(t *testing.T) {
	fs := mocks.NewFileSystem()
	boom := errors.New("disk full")
	fs.WriteFileFunc = func(string, []byte) error { return boom }

	if err := New(testBaseDir, fs).SaveRawFrame(0, ports.FormatJPEG, nil); !errors.Is(err, boom) {
		t.Errorf("expected write error, got %v", err)
	}
}
