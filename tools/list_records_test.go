package tools

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/edudesk/contentdesk/internal/backend"
)

const examUUID = "0f8fad5b-d9cb-469f-a165-70867728950e"

func newTestBackend(t *testing.T, calls *atomic.Int32) *backend.Client {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		switch r.URL.Path {
		case "/api/iit":
			_, _ = io.WriteString(w, `[{"id":17,"college_name":"IIT Old Town"},{"id":18,"college_name":"IIT Hill"}]`)
		case "/api/nit":
			_, _ = io.WriteString(w, `[{"id":4,"name":"NIT Trichy"}]`)
		case "/exams":
			_, _ = io.WriteString(w, `{"data":[{"uuid":"`+examUUID+`","Name":"JEE Main"}]}`)
		case "/college-exams":
			_, _ = io.WriteString(w, `[{"id":"9","name":"BITSAT"}]`)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	t.Cleanup(srv.Close)
	return backend.New(srv.URL, backend.WithHTTPClient(srv.Client()))
}

func TestListRecordsColleges(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	handler := newListRecordsHandlerFunc(newTestBackend(t, &calls), []string{"iit", "nit"})

	out := call(t, handler, nil)
	require.Equal(t, int32(2), calls.Load())
	require.Equal(t, "college", gjson.Get(out, "kind").String())
	require.Equal(t, int64(3), gjson.Get(out, "count").Int())
	require.Equal(t, "college:17:iit", gjson.Get(out, "records.0.record").String())
	require.Equal(t, "IIT Old Town", gjson.Get(out, "records.0.name").String())
	require.Equal(t, "college:18:iit", gjson.Get(out, "records.1.record").String())
	require.Equal(t, "college:4:nit", gjson.Get(out, "records.2.record").String())
	require.Equal(t, "NIT Trichy", gjson.Get(out, "records.2.name").String())

	out = call(t, handler, map[string]any{"type": "nit"})
	require.Equal(t, int32(3), calls.Load())
	require.Equal(t, int64(1), gjson.Get(out, "count").Int())
	require.Equal(t, "college:4:nit", gjson.Get(out, "records.0.record").String())
}

func TestListRecordsExams(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	handler := newListRecordsHandlerFunc(newTestBackend(t, &calls), []string{"iit"})

	out := call(t, handler, map[string]any{"kind": "exam"})
	require.Equal(t, int64(1), gjson.Get(out, "count").Int())
	require.Equal(t, "exam:"+examUUID, gjson.Get(out, "records.0.record").String())
	require.Equal(t, "JEE Main", gjson.Get(out, "records.0.name").String())

	out = call(t, handler, map[string]any{"kind": "college-exam"})
	require.Equal(t, "college-exam:9", gjson.Get(out, "records.0.record").String())
	require.Equal(t, "BITSAT", gjson.Get(out, "records.0.name").String())
}

func TestListRecordsFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	handler := newListRecordsHandlerFunc(newTestBackend(t, &calls), []string{"iit", "iiit"})

	msg := callError(t, handler, nil)
	require.Contains(t, msg, "failed to list records")
	require.Contains(t, msg, "iiit")

	require.Contains(t, callError(t, handler, map[string]any{"kind": "school"}), "unknown record kind")
}
