package tabular

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func encode(t *testing.T, v any) string {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func TestDetectHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rows [][]string
		want int
	}{
		{name: "first row", rows: [][]string{{"a", "b"}, {"1", "2"}}, want: 0},
		{name: "title rows", rows: [][]string{{"Report", "", ""}, {"", "", ""}, {"a", "b", ""}, {"1", "2", "3"}}, want: 2},
		{name: "nothing qualifies", rows: [][]string{{"x", ""}, {"", "y"}}, want: 0},
		{name: "empty", rows: nil, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, DetectHeader(tt.rows))
		})
	}
}

func TestDetectHeaderScansTenRows(t *testing.T) {
	t.Parallel()

	rows := make([][]string, 12)
	for i := range rows {
		rows[i] = []string{"", "", "x"}
	}
	rows[11] = []string{"a", "b", "c"}
	require.Equal(t, 0, DetectHeader(rows))
}

func TestBuild(t *testing.T) {
	t.Parallel()

	ds, err := Build([][]string{
		{"Institute", "", ""},
		{" Name ", "Rank", ""},
		{"IIT A", "1"},
		{"IIT B", "2", "extra"},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"Name", "Rank", "column_3"}, ds.Headers)
	require.Equal(t,
		`[{"Name":"IIT A","Rank":"1","column_3":""},{"Name":"IIT B","Rank":"2","column_3":"extra"}]`,
		encode(t, ds.Records))

	_, err = Build(nil)
	require.ErrorIs(t, err, ErrEmpty)
}

func TestReadCSVRaggedRows(t *testing.T) {
	t.Parallel()

	ds, err := ReadCSV(strings.NewReader("name,seats\nCSE,120\nECE\n"))
	require.NoError(t, err)
	require.Equal(t, `[{"name":"CSE","seats":"120"},{"name":"ECE","seats":""}]`, encode(t, ds.Records))
}

func TestReadXLSX(t *testing.T) {
	t.Parallel()

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Branch", "Closing Rank"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"CSE", 67}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	ds, err := ReadXLSX(buf, "")
	require.NoError(t, err)
	require.Equal(t, []string{"Branch", "Closing Rank"}, ds.Headers)
	require.Equal(t, `[{"Branch":"CSE","Closing Rank":"67"}]`, encode(t, ds.Records))
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "fees.csv")
	require.NoError(t, os.WriteFile(path, []byte("course,fee\nbtech,100\n"), 0o600))

	ds, err := ReadFile(path, "")
	require.NoError(t, err)
	require.Len(t, ds.Records, 1)

	_, err = ReadFile(filepath.Join(dir, "notes.txt"), "")
	require.ErrorIs(t, err, ErrUnsupported)
}

func TestParseSimpleTable(t *testing.T) {
	t.Parallel()

	text := "Course\tSeats\n\nB.Tech  120\nM.Tech   40   extra\nPhD\t12\n"
	got := ParseSimpleTable(text)
	require.Equal(t, `[{"Course":"B.Tech","Seats":"120"},{"Course":"PhD","Seats":"12"}]`, encode(t, got))

	require.Nil(t, ParseSimpleTable("  \n "))
}
