package parcel

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jmdejong/cadastrs/internal/errs"
	"github.com/jmdejong/cadastrs/internal/pos"
)

func TestParse_ErrorWhenEmpty(t *testing.T) {
	_, err := Parse("", Public())
	require.ErrorIs(t, err, errs.ErrEmptyFile)
}

func TestParse_ErrorWhenPositionInvalid(t *testing.T) {
	for _, text := range []string{" ", "123", "a 3", "5 b", "10 11 12", "\n0 0"} {
		_, err := Parse(text, Public())
		require.ErrorIs(t, err, errs.ErrPositionLine, "input %q", text)
	}
}

func TestParse_ShortInputIsPadded(t *testing.T) {
	p, err := Parse("0 1\nhello\n", Public())
	require.NoError(t, err)
	require.Equal(t, pos.New(0, 1), p.Location)
	require.Equal(t, "hello"+strings.Repeat(" ", 19), p.Art[0])
	for y := 1; y < Height; y++ {
		require.Equal(t, strings.Repeat(" ", Width), p.Art[y])
	}
	require.Equal(t, p.Art, p.Mask)
	require.Empty(t, p.Links)
}

func TestParse_HeaderOnly(t *testing.T) {
	p, err := Parse("-4 7", User("bob"))
	require.NoError(t, err)
	require.Equal(t, pos.New(-4, 7), p.Location)
	require.Equal(t, BlankGrid(), p.Art)
	require.Equal(t, BlankGrid(), p.Mask)
	require.Equal(t, User("bob"), p.Owner)
}

func TestParse_DimensionsAlwaysFixed(t *testing.T) {
	inputs := []string{
		"0 0",
		"0 0\n" + strings.Repeat("x", 100),
		"0 0\n" + strings.Repeat("ab\n", 40),
		"0 0\n" + strings.Repeat("╔═π\n", 3) + "\n" + strings.Repeat("1234567890123456789012345678\n", 20),
	}
	for _, in := range inputs {
		p, err := Parse(in, Public())
		require.NoError(t, err)
		for _, g := range []Grid{p.Art, p.Mask} {
			require.Len(t, g, Height)
			for _, row := range g {
				require.Equal(t, Width, len([]rune(row)), "row %q", row)
			}
		}
	}
}

func TestParse_TruncatesByRunes(t *testing.T) {
	line := "╔" + strings.Repeat("═", 30) + "╗"
	p, err := Parse("0 0\n"+line, Public())
	require.NoError(t, err)
	require.Equal(t, "╔"+strings.Repeat("═", 23), p.Art[0])
}

func TestParse_SanitizesDisallowedRunes(t *testing.T) {
	p, err := Parse("0 0\nhi \U0001F3E0 there\na\u200bb\u202ec\tz\n", Public())
	require.NoError(t, err)
	require.Equal(t, "hi ? there"+strings.Repeat(" ", 14), p.Art[0])
	require.Equal(t, "a?b?c?z"+strings.Repeat(" ", 17), p.Art[1])
}

func TestParse_ComposesCombiningMarks(t *testing.T) {
	p, err := Parse("0 0\ncafe\u0301 x\u20dd\n", Public())
	require.NoError(t, err)
	require.Equal(t, "caf\u00e9 x?"+strings.Repeat(" ", 17), p.Art[0])
}

func TestParse_MalformedSeparatorDisablesLinks(t *testing.T) {
	text := "1 1\nart\n" + strings.Repeat("\n", 11) + "oops\n1 https://example.com\nthis is not a link line\n"
	p, err := Parse(text, Public())
	require.NoError(t, err)
	require.Equal(t, p.Art, p.Mask)
	require.Empty(t, p.Links)
}

func TestParse_LinkLineError(t *testing.T) {
	text := "1 1\n" + strings.Repeat("\n", 12) + "-\n1 https://a.example\n\nab https://b.example\n"
	_, err := Parse(text, Public())
	require.ErrorIs(t, err, errs.ErrLinkLine)

	var lle *LinkLineError
	require.True(t, errors.As(err, &lle))
	require.Equal(t, 17, lle.Row)
	require.Equal(t, "ab https://b.example", lle.Text)

	_, err = Parse("1 1\n"+strings.Repeat("\n", 12)+"-\nx\n", Public())
	require.ErrorIs(t, err, errs.ErrLinkLine)

	_, err = Parse("1 1\n"+strings.Repeat("\n", 12)+"-\nx http://a b\n", Public())
	require.ErrorIs(t, err, errs.ErrLinkLine)
}

func TestParse_DuplicateLinkKeyLastWins(t *testing.T) {
	text := "1 1\n" + strings.Repeat("\n", 12) + "-\n1 https://first\n1 https://second\n"
	p, err := Parse(text, Public())
	require.NoError(t, err)
	require.Equal(t, Links{'1': "https://second"}, p.Links)
}

func TestParse_ParcelWithMask(t *testing.T) {
	text := `0 1
+==()=================+.
| (%&8)  /\       _,__|.
|(&(%)%)/  \    . __,_|.
| (%8%)/_##_\   .     |.
|  ||/ |    |   . @   |.
|  ||  | /\ | * . @   |.
|  ||  |_||_|   .     |.
|        ..  *  .     |.
| (%) O  ........     |.
|        ..    ~troido|.
+=======#  #==========+.
........................

111()111111111111111111.
1 (%&8)  33       _,__1.
1(&(%)%)3333    . __,_1.
1 (%8%)333333   .     1.
1  ||/ 333333   . @   1.
1  ||  333333 * . @   1.
1  ||  333333   .     1.
1        ..  *  . "'` + "`" + ` 1.
1 (%) O  ........     1.
1        ..    22222221.
11111111111111111111111.
........................
1 https://tilde.town/~troido/cadastre/
2 https://tilde.town/~troido/index.html
3 https://tilde.town/~troido/entrance.html
		`
	want := Parcel{
		Owner:    User("troido"),
		Location: pos.New(0, 1),
		Art: Grid{
			"+==()=================+.",
			`| (%&8)  /\       _,__|.`,
			`|(&(%)%)/  \    . __,_|.`,
			`| (%8%)/_##_\   .     |.`,
			"|  ||/ |    |   . @   |.",
			`|  ||  | /\ | * . @   |.`,
			"|  ||  |_||_|   .     |.",
			"|        ..  *  .     |.",
			"| (%) O  ........     |.",
			"|        ..    ~troido|.",
			"+=======#  #==========+.",
			"........................",
		},
		Mask: Grid{
			"111()111111111111111111.",
			"1 (%&8)  33       _,__1.",
			"1(&(%)%)3333    . __,_1.",
			"1 (%8%)333333   .     1.",
			"1  ||/ 333333   . @   1.",
			"1  ||  333333 * . @   1.",
			"1  ||  333333   .     1.",
			"1        ..  *  . \"'` 1.",
			"1 (%) O  ........     1.",
			"1        ..    22222221.",
			"11111111111111111111111.",
			"........................",
		},
		Links: Links{
			'1': "https://tilde.town/~troido/cadastre/",
			'2': "https://tilde.town/~troido/index.html",
			'3': "https://tilde.town/~troido/entrance.html",
		},
	}
	got, err := Parse(text, User("troido"))
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestParse_ParcelWithoutMask(t *testing.T) {
	text := `5 1
####################
#  ____            #
# / \__\           #
# |_|__|    ,,,,,  #
#           ,,,,,  #
#    -----  ,,,,,  #
#    -----     _   #
#    -----    (*)  #
# ~johndoe     |   #
##########(%)#######
...........|........
....................
-
# https://example.com
		`
	art := Grid{
		"####################    ",
		"#  ____            #    ",
		`# / \__\           #    `,
		"# |_|__|    ,,,,,  #    ",
		"#           ,,,,,  #    ",
		"#    -----  ,,,,,  #    ",
		"#    -----     _   #    ",
		"#    -----    (*)  #    ",
		"# ~johndoe     |   #    ",
		"##########(%)#######    ",
		"...........|........    ",
		"....................    ",
	}
	want := Parcel{
		Owner:    User("johndoe"),
		Location: pos.New(5, 1),
		Art:      art,
		Mask:     art,
		Links:    Links{'#': "https://example.com"},
	}
	got, err := Parse(text, User("johndoe"))
	require.NoError(t, err)
	require.Equal(t, want, got)
}
