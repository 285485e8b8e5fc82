package logger

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestRedactEmail(t *testing.T) {
	assert.Equal(t, "jo***@example.com", RedactEmail("john.doe@example.com"))
	assert.Equal(t, "***@example.com", RedactEmail("ab@example.com"))
	assert.Equal(t, "***@***", RedactEmail("not-an-email"))
}

func TestRedactPIIValue(t *testing.T) {
	assert.Equal(t, "jo***@example.com", redactPIIValue("email", "john@example.com"))
	assert.Equal(t, "sent to jo***@example.com today", redactPIIValue("detail", "sent to john@example.com today"))
	assert.Equal(t, "42", redactPIIValue("target_id", "42"))
}

func TestToZapFields(t *testing.T) {
	fields := toZapFields(true, "email", "john@example.com", "err", errors.New("boom"), "dangling")
	assert.Len(t, fields, 2)
	assert.Equal(t, "email", fields[0].Key)
	assert.Equal(t, "jo***@example.com", fields[0].String)
	assert.Equal(t, "boom", fields[1].String)
}

func TestSetLevelDuringInit(t *testing.T) {
	t.Cleanup(func() { Init("info", "json") })

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			Init("debug", "json")
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			SetLevel(WARN)
		}
	}()
	wg.Wait()

	SetLevel(ERROR)
	assert.True(t, Zap().Core().Enabled(zapcore.ErrorLevel))
	assert.False(t, Zap().Core().Enabled(zapcore.WarnLevel))
}
