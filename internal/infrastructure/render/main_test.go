package render

import (
	"fmt"
	"os"
	"testing"

	"go.uber.org/zap"

	"docsign-client/internal/testutil"
)

var testEngine *Engine

func TestMain(m *testing.M) {
	cfg := testutil.Config("")
	cfg.Render.Workers = 2

	engine, err := NewEngine(cfg, zap.NewNop())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	testEngine = engine

	code := m.Run()
	_ = engine.Close()
	os.Exit(code)
}
