package log

import (
	"bytes"
	"encoding/json"
	"errors"
	stdlog "log"
	"strings"
	"testing"
)

func capture(t *testing.T, fn func()) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	oldW, oldFlags := stdlog.Writer(), stdlog.Flags()
	stdlog.SetOutput(&buf)
	stdlog.SetFlags(0)
	defer func() {
		stdlog.SetOutput(oldW)
		stdlog.SetFlags(oldFlags)
	}()
	fn()
	var out map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &out); err != nil {
		t.Fatalf("not a JSON line: %q: %v", buf.String(), err)
	}
	return out
}

func TestFloorReferencesAreLifted(t *testing.T) {
	fields := map[string]any{"table_id": "table-2", "session_id": "session-9", "amount": 18.75, "hours": 2.0}
	got := capture(t, func() { Audit(nil, "session.pay", fields) })

	if got["level"] != "audit" || got["table_id"] != "table-2" || got["session_id"] != "session-9" || got["amount"] != 18.75 {
		t.Fatalf("entry = %v", got)
	}
	rest, _ := got["fields"].(map[string]any)
	if rest["hours"] != 2.0 || rest["table_id"] != nil {
		t.Fatalf("fields = %v", rest)
	}
	if _, ok := fields["table_id"]; !ok {
		t.Fatal("caller map was modified")
	}
}

func TestErrorWithoutContext(t *testing.T) {
	got := capture(t, func() { Error(nil, "sync.push.fail", errors.New("disk full"), nil) })
	if got["level"] != "error" || got["err"] != "disk full" || got["fields"] != nil || got["path"] != nil {
		t.Fatalf("entry = %v", got)
	}
}
