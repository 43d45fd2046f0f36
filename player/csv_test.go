package player

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const header = "id,name,team,position,pa,single,double,triple,hr,bb,hbp,so"

func parse(t *testing.T, text string) ([]Player, []string) {
	t.Helper()
	players, warnings, err := ParseCSV(strings.NewReader(text))
	require.NoError(t, err)
	return players, warnings
}

func TestParseCSV(t *testing.T) {
	t.Run("parses valid rows", func(t *testing.T) {
		players, warnings := parse(t, header+"\n"+
			"1,田中太郎,東京,遊,500,100,30,5,20,50,5,100\n"+
			"2,鈴木次郎,大阪,中,450,90,25,3,15,40,3,80\n")
		require.Empty(t, warnings)
		require.Len(t, players, 2)
		require.Equal(t, Player{
			ID: 1, Name: "田中太郎", Team: "東京", Position: "遊",
			PA: 500, Single: 100, Double: 30, Triple: 5, HR: 20, BB: 50, HBP: 5, SO: 100,
		}, players[0])
		require.Equal(t, 2, players[1].ID)
		require.Equal(t, "鈴木次郎", players[1].Name)
	})

	t.Run("empty input", func(t *testing.T) {
		for _, text := range []string{"", "\n\n   \n"} {
			players, warnings := parse(t, text)
			require.Empty(t, players)
			require.Empty(t, warnings)
		}
	})

	t.Run("wrong header", func(t *testing.T) {
		_, _, err := ParseCSV(strings.NewReader("name,id\n1,a\n"))
		require.ErrorIs(t, err, ErrInvalidHeader)
	})

	t.Run("header is case and space insensitive", func(t *testing.T) {
		players, warnings := parse(t, " ID, Name ,TEAM,position,pa,single,double,triple,hr,bb,hbp,so\n1,a,b,投,10,1,0,0,0,0,0,0\n")
		require.Empty(t, warnings)
		require.Len(t, players, 1)
	})

	t.Run("strips byte order mark", func(t *testing.T) {
		players, warnings := parse(t, "\ufeff"+header+"\n1,田中太郎,東京,遊,500,100,30,5,20,50,5,100\n")
		require.Empty(t, warnings)
		require.Len(t, players, 1)
		require.Equal(t, "田中太郎", players[0].Name)
	})

	t.Run("handles CRLF and blank lines", func(t *testing.T) {
		players, warnings := parse(t, header+"\r\n1,a,b,捕,10,1,0,0,0,0,0,0\r\n\r\n\r\n2,c,d,一,10,1,0,0,0,0,0,0\r\n")
		require.Empty(t, warnings)
		require.Len(t, players, 2)
	})

	t.Run("folds full-width digits", func(t *testing.T) {
		players, warnings := parse(t, header+"\n１,田中太郎,東京,遊,５００,１００,30,5,20,50,5,100\n")
		require.Empty(t, warnings)
		require.Len(t, players, 1)
		require.Equal(t, 1, players[0].ID)
		require.Equal(t, 500, players[0].PA)
		require.Equal(t, 100, players[0].Single)
		require.Equal(t, "田中太郎", players[0].Name)
	})

	t.Run("half-width katakana becomes full-width", func(t *testing.T) {
		players, warnings := parse(t, header+"\n1,ﾛｰｽ,大阪,右,10,1,0,0,0,0,0,0\n")
		require.Empty(t, warnings)
		require.Equal(t, "ロース", players[0].Name)
	})

	t.Run("accepts every position", func(t *testing.T) {
		var b strings.Builder
		b.WriteString(header + "\n")
		for i, pos := range Positions {
			b.WriteString(strings.Join([]string{string(rune('0' + i)), "n", "t", pos, "10", "1", "0", "0", "0", "0", "0", "0"}, ",") + "\n")
		}
		players, warnings := parse(t, b.String())
		require.Empty(t, warnings)
		require.Len(t, players, 10)
	})
}

func TestParseCSVSkipsInvalidRows(t *testing.T) {
	good := "1,田中太郎,東京,遊,500,100,30,5,20,50,5,100"

	tests := []struct {
		name    string
		row     string
		warning string
	}{
		{"non-numeric field", "2,b,c,遊,abc,1,0,0,0,0,0,0", "invalid numeric field"},
		{"non-integer field", "2,b,c,遊,10.5,1,0,0,0,0,0,0", "invalid numeric field"},
		{"zero plate appearances", "2,b,c,遊,0,0,0,0,0,0,0,0", "plate appearances must be at least 1"},
		{"negative count", "2,b,c,遊,10,-5,0,0,0,0,0,0", "negative single count -5"},
		{"events exceed plate appearances", "2,b,c,遊,5,3,3,0,0,0,0,0", "event total 6 exceeds plate appearances 5"},
		{"invalid position", "2,b,c,X,10,1,0,0,0,0,0,0", "invalid position"},
		{"empty name", "2,,c,遊,10,1,0,0,0,0,0,0", "name and team must not be empty"},
		{"empty team", "2,b, ,遊,10,1,0,0,0,0,0,0", "name and team must not be empty"},
		{"wrong column count", "2,b,c,遊,10", "got 5 columns, want 12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			players, warnings := parse(t, header+"\n"+good+"\n"+tt.row+"\n")
			require.Len(t, players, 1)
			require.Equal(t, "田中太郎", players[0].Name)
			require.Len(t, warnings, 1)
			require.Contains(t, warnings[0], "line 3:")
			require.Contains(t, warnings[0], tt.warning)
		})
	}
}

func TestWriteCSV(t *testing.T) {
	players := SyntheticRoster(4, 11)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, players))

	parsed, warnings, err := ParseCSV(&buf)
	require.NoError(t, err)
	require.Empty(t, warnings)
	require.Equal(t, players, parsed)
}
