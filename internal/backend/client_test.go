package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/edudesk/contentdesk/internal/value"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, WithHTTPClient(srv.Client()))
}

func encode(t *testing.T, v any) string {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func TestGetCollegeKeepsKeyOrder(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/college/17/nit", r.URL.Path)
		_, _ = io.WriteString(w, `{"basic_data":{"Name":"NIT T","Tier":"1"},"full_data":{"ranking":{},"about":{"z":1,"a":2}}}`)
	})

	college, err := c.GetCollege(context.Background(), "17", "nit")
	require.NoError(t, err)
	require.Equal(t, []string{"Name", "Tier"}, college.Basic.Keys())
	require.Equal(t, `{"ranking":{},"about":{"z":1,"a":2}}`, encode(t, college.Full))
}

func TestGetCollegeMissingFields(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"full_data":null}`)
	})

	college, err := c.GetCollege(context.Background(), "1", "iit")
	require.NoError(t, err)
	require.Equal(t, 0, college.Basic.Len())
	require.Equal(t, 0, college.Full.Len())
}

func TestUpdateCollegeBody(t *testing.T) {
	t.Parallel()

	got := make(chan string, 1)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		data, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		got <- string(data)
		w.WriteHeader(http.StatusNoContent)
	})

	basic := value.MustParse(`{"Name":"IIT B"}`).(value.Group)
	full := value.MustParse(`{"b":1,"a":2}`).(value.Group)
	require.NoError(t, c.UpdateCollege(context.Background(), "3", "iit", "IIT B", basic, full))
	require.Equal(t, `{"college_name":"IIT B","full_data":{"b":1,"a":2},"basic_data":{"Name":"IIT B"}}`, <-got)
}

func TestAPIErrorDetail(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"detail":"College not found"}`)
	})

	_, err := c.GetCollege(context.Background(), "9", "iiit")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	require.Equal(t, "College not found", apiErr.Detail)
	require.True(t, IsNotFound(err))
}

func TestErrorDetailFallbacks(t *testing.T) {
	t.Parallel()

	require.Equal(t, "bad", errorDetail([]byte(`{"details":"bad"}`)))
	require.Equal(t, `[{"loc":["body"]}]`, errorDetail([]byte(`{"detail":[{"loc":["body"]}]}`)))
	require.Equal(t, "Internal Server Error", errorDetail([]byte("Internal Server Error\n")))
}

func TestListAllCollegesKeepsTypeOrder(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		typ := strings.TrimPrefix(r.URL.Path, "/api/")
		_, _ = io.WriteString(w, `[{"name":"`+typ+`-1"},"skip",{"name":"`+typ+`-2"}]`)
	})

	lists, err := c.ListAllColleges(context.Background(), DefaultCollegeTypes)
	require.NoError(t, err)
	require.Equal(t, int32(4), calls.Load())
	require.Len(t, lists, 4)
	for i, typ := range DefaultCollegeTypes {
		require.Equal(t, typ, lists[i].Type)
		require.Len(t, lists[i].Colleges, 2)
		name, _ := lists[i].Colleges[0].Get("name")
		require.Equal(t, value.String(typ+"-1"), name)
	}
}

func TestListAllCollegesFails(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/nit" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = io.WriteString(w, `[]`)
	})

	_, err := c.ListAllColleges(context.Background(), DefaultCollegeTypes)
	require.Error(t, err)
	require.Contains(t, err.Error(), "nit")
}

func TestUpdateCollegeOrder(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/update-college-order", r.URL.Path)
		var body updateOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "IIT", body.Category)
		require.Equal(t, []OrderItem{{ID: 4, SortOrder: 0}, {ID: 2, SortOrder: 1}}, body.Items)
	})

	err := c.UpdateCollegeOrder(context.Background(), "IIT", []OrderItem{{ID: 4, SortOrder: 0}, {ID: 2, SortOrder: 1}})
	require.NoError(t, err)
}

func TestGetExam(t *testing.T) {
	t.Parallel()

	const id = "3f8a2c1e-5b7d-4e6f-9a0b-1c2d3e4f5a6b"
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/exams/"+id, r.URL.Path)
		_, _ = io.WriteString(w, `{"data":{"Name":"JEE Main","About":"text"}}`)
	})

	exam, err := c.GetExam(context.Background(), Exams, id)
	require.NoError(t, err)
	require.Equal(t, []string{"Name", "About"}, exam.Keys())

	_, err = c.GetExam(context.Background(), Exams, "not-a-uuid")
	require.ErrorIs(t, err, ErrInvalidID)
}

func TestUpdateExamBody(t *testing.T) {
	t.Parallel()

	got := make(chan string, 1)
	c := newTestClient(t, func(_ http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/college-exams/42", r.URL.Path)
		data, _ := io.ReadAll(r.Body)
		got <- string(data)
	})

	basic := value.MustParse(`{"Name":"X"}`).(value.Group)
	full := value.MustParse(`{"About":"y"}`).(value.Group)
	require.NoError(t, c.UpdateExam(context.Background(), CollegeExams, "42", basic, full))
	require.Equal(t, `{"basic_data":{"Name":"X"},"full_details":{"About":"y"}}`, <-got)
}

func TestListExamsUnwrapsData(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"data":[{"Name":"A"},{"Name":"B"}]}`)
	})

	exams, err := c.ListExams(context.Background(), Exams)
	require.NoError(t, err)
	require.Len(t, exams, 2)
}

func TestAnnouncements(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			_, _ = io.WriteString(w, `[{"id":1,"title":"Counselling","priority":"High","scheduled_at":null}]`)
		case r.Method == http.MethodPost:
			var a Announcement
			require.NoError(t, json.NewDecoder(r.Body).Decode(&a))
			a.ID = 7
			require.NoError(t, json.NewEncoder(w).Encode(a))
		case r.Method == http.MethodDelete:
			require.Equal(t, "/api/announcements/7", r.URL.Path)
		}
	})

	ctx := context.Background()
	list, err := c.ListAnnouncements(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Counselling", list[0].Title)

	created, err := c.CreateAnnouncement(ctx, Announcement{Title: "Round 2", DataJSON: json.RawMessage(`[{"type":"p"}]`)})
	require.NoError(t, err)
	require.Equal(t, int64(7), created.ID)
	require.JSONEq(t, `[{"type":"p"}]`, string(created.DataJSON))

	require.NoError(t, c.DeleteAnnouncement(ctx, 7))
	require.ErrorIs(t, c.DeleteAnnouncement(ctx, 0), ErrInvalidID)
}

func TestConvertCSV(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/convert-csv", r.URL.Path)
		require.Equal(t, "cutoff", r.URL.Query().Get("filter_name"))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		require.Equal(t, "ranks.csv", header.Filename)
		_, _ = io.WriteString(w, `[{"rank":"1"}]`)
	})

	rows, err := c.ConvertCSV(context.Background(), "/tmp/ranks.csv", strings.NewReader("rank\n1\n"), "cutoff")
	require.NoError(t, err)
	require.Equal(t, `[{"rank":"1"}]`, encode(t, rows))
}

func TestParseTable(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body parseTableRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "a b", body.Text)
		_, _ = io.WriteString(w, `{"content":[["a","b"]]}`)
	})

	cells, err := c.ParseTable(context.Background(), "a b")
	require.NoError(t, err)
	require.Equal(t, [][]string{{"a", "b"}}, cells)
}

func TestRequestHonoursContext(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.ListColleges(ctx, "iit")
	require.ErrorIs(t, err, context.Canceled)
}
