package log

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
)

func TestLoggerInterface(t *testing.T) {
	testLogger, buffer := NewTestLogger(LevelDebug)

	testLogger.Debug("debug message", "key1", "value1", "number", 42)
	testLogger.Info("info message", OperationKey, OperationCompute)
	testLogger.Warn("warning message", ErrorCodeKey, ErrorParse)
	testLogger.Error("error message", fmt.Errorf("boom"), ErrorCodeKey, ErrorConvergence)

	if buffer.String() == "" {
		t.Fatal("Expected log output, got empty string")
	}

	for _, msg := range []string{"debug message", "info message", "warning message", "error message"} {
		if !testLogger.ContainsMessage(msg) {
			t.Errorf("%q not found in output", msg)
		}
	}

	if !testLogger.ContainsField("key1", "value1") {
		t.Error("Expected field key1=value1 not found")
	}
	// JSON unmarshaling converts numbers to float64
	if !testLogger.ContainsField("number", 42.0) {
		t.Error("Expected field number=42 not found")
	}
	if !testLogger.ContainsField(ErrAttrKey, "boom") {
		t.Error("Expected leading error to be logged under the error key")
	}
}

func TestLoggerWith(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelDebug)

	contextLogger := testLogger.With(
		ModelNameKey, "LassoCV",
		ComponentKey, "linear_model",
	)
	contextLogger.Info("alpha selected", AlphaKey, 0.01, NonZeroKey, 7)

	if !testLogger.ContainsField(ModelNameKey, "LassoCV") {
		t.Error("Model name context not found")
	}
	if !testLogger.ContainsField(ComponentKey, "linear_model") {
		t.Error("Component context not found")
	}
	if !testLogger.ContainsField(AlphaKey, 0.01) {
		t.Error("Alpha field not found")
	}
}

func TestLoggerEnabled(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelInfo)
	ctx := context.Background()

	if !testLogger.Enabled(ctx, LevelInfo) {
		t.Error("Logger should be enabled for Info level")
	}
	if !testLogger.Enabled(ctx, LevelError) {
		t.Error("Logger should be enabled for Error level")
	}
	if testLogger.Enabled(ctx, LevelDebug) {
		t.Error("Logger should not be enabled for Debug level")
	}

	testLogger.Debug("this should not appear")
	testLogger.Info("this should appear")

	if testLogger.ContainsMessage("this should not appear") {
		t.Error("Debug message should not appear when level is Info")
	}
	if !testLogger.ContainsMessage("this should appear") {
		t.Error("Info message should appear when level is Info")
	}
}

func TestPipelineAttributeKeys(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelInfo)

	testLogger.Info("descriptor table computed",
		StageKey, "descriptors",
		OperationKey, OperationCompute,
		MoleculesKey, 1024,
		FeaturesKey, 112,
		ParseFailuresKey, 3,
	)

	entries, err := testLogger.GetLogEntries()
	if err != nil {
		t.Fatalf("Failed to parse log entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 log entry, got %d", len(entries))
	}

	expected := map[string]interface{}{
		StageKey:         "descriptors",
		OperationKey:     OperationCompute,
		MoleculesKey:     1024.0,
		FeaturesKey:      112.0,
		ParseFailuresKey: 3.0,
	}
	for key, want := range expected {
		if got := entries[0][key]; got != want {
			t.Errorf("Field %s: expected %v, got %v", key, want, got)
		}
	}
}

func TestLoggerProviderIntegration(t *testing.T) {
	provider, buffer := NewTestLoggerProvider(LevelDebug)

	provider.GetLogger().Info("provider test message")
	provider.GetLoggerWithName("cleaner").Info("named logger message")

	out := buffer.String()
	if !strings.Contains(out, "provider test message") {
		t.Error("Provider test message not found")
	}
	if !strings.Contains(out, "named logger message") {
		t.Error("Named logger message not found")
	}
	if !provider.Logger().ContainsField(ComponentKey, "cleaner") {
		t.Error("Component name not found in named logger output")
	}
}

func TestConcurrentLogging(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelInfo)

	const goroutines, perGoroutine = 8, 25
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			child := testLogger.With(FoldKey, id)
			for j := 0; j < perGoroutine; j++ {
				child.Info(fmt.Sprintf("fold %d step %d", id, j), IterationKey, j)
			}
		}(i)
	}
	wg.Wait()

	entries, err := testLogger.GetLogEntries()
	if err != nil {
		t.Fatalf("Failed to parse log entries: %v", err)
	}
	if len(entries) != goroutines*perGoroutine {
		t.Errorf("Expected %d log entries, got %d", goroutines*perGoroutine, len(entries))
	}
}

func BenchmarkLogging(b *testing.B) {
	testLogger, _ := NewTestLogger(LevelInfo)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		testLogger.Info("benchmark message",
			"iteration", i,
			OperationKey, OperationPredict,
			SamplesKey, 1000,
		)
	}
}
