package config

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestLogErrorRecordsContextFields(t *testing.T) {
	logger, hook := test.NewNullLogger()

	LogError(logger, "cheque", "listCheques", "list cheques failed", nil, errors.New("connection refused"))

	if len(hook.Entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(hook.Entries))
	}
	entry := hook.LastEntry()
	if entry.Level != logrus.ErrorLevel {
		t.Errorf("level = %s, want error", entry.Level)
	}
	if entry.Message != "connection refused" {
		t.Errorf("message = %q, want the error text", entry.Message)
	}
	if entry.Data["module"] != "cheque" || entry.Data["funcName"] != "listCheques" {
		t.Errorf("context fields = %+v, want module and funcName set", entry.Data)
	}
	if _, ok := entry.Data["data"]; ok {
		t.Error("data field set despite nil payload")
	}
}
