package cadastre

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jmdejong/cadastrs/internal/background"
	"github.com/jmdejong/cadastrs/internal/parcel"
	"github.com/jmdejong/cadastrs/internal/pos"
)

func claim(owner parcel.Owner, x, y int64) parcel.Parcel {
	return parcel.Empty(owner, pos.New(x, y))
}

func build(old *Cadastre, parcels ...parcel.Parcel) *Cadastre {
	return Build(old, slices.Values(parcels))
}

func requireOwner(t *testing.T, c *Cadastre, x, y int64, want parcel.Owner) {
	t.Helper()
	got, ok := c.OwnerOf(pos.New(x, y))
	require.True(t, ok, "plot (%d,%d) unclaimed", x, y)
	require.Equal(t, want, got, "plot (%d,%d)", x, y)
}

func someCadastre() *Cadastre {
	return build(Empty(),
		claim(parcel.User("troido"), 2, 3),
		claim(parcel.User("odiort"), 3, 2),
		claim(parcel.Public(), 3, 3),
		claim(parcel.Admin(), 2, 2),
	)
}

func TestBuild_CanReclaimUnclaimedPlots(t *testing.T) {
	c := build(someCadastre(),
		claim(parcel.User("troido"), 3, 2),
		claim(parcel.User("odiort"), 2, 3),
		claim(parcel.Public(), 2, 2),
	)
	requireOwner(t, c, 3, 2, parcel.User("troido"))
	requireOwner(t, c, 2, 3, parcel.User("odiort"))
	requireOwner(t, c, 2, 2, parcel.Public())
	require.Equal(t, 3, c.Len())
}

func TestBuild_TenancyDecidesBetweenUsers(t *testing.T) {
	c := build(someCadastre(),
		claim(parcel.User("john"), 2, 3),
		claim(parcel.User("jack"), 3, 2),
		claim(parcel.User("troido"), 2, 3),
		claim(parcel.User("odiort"), 3, 2),
		claim(parcel.User("joe"), 2, 3),
		claim(parcel.User("josh"), 3, 2),
	)
	requireOwner(t, c, 2, 3, parcel.User("troido"))
	requireOwner(t, c, 3, 2, parcel.User("odiort"))
}

func TestBuild_PriorityOverridesAll(t *testing.T) {
	c := build(someCadastre(),
		claim(parcel.User("troido"), 2, 3),
		claim(parcel.Public(), 3, 3),
		claim(parcel.User("odiort"), 3, 3),
		claim(parcel.Admin(), 2, 3),
		claim(parcel.User("troido"), 2, 3),
		claim(parcel.Public(), 3, 3),
	)
	requireOwner(t, c, 2, 3, parcel.Admin())
	requireOwner(t, c, 3, 3, parcel.User("odiort"))
}

func TestBuild_HigherPriorityWinsInEitherOrder(t *testing.T) {
	pairs := [][2]parcel.Owner{
		{parcel.Admin(), parcel.Public()},
		{parcel.Admin(), parcel.User("alice")},
		{parcel.User("alice"), parcel.Public()},
	}
	for _, pair := range pairs {
		hi, lo := pair[0], pair[1]
		requireOwner(t, build(Empty(), claim(hi, 2, 3), claim(lo, 2, 3)), 2, 3, hi)
		requireOwner(t, build(Empty(), claim(lo, 2, 3), claim(hi, 2, 3)), 2, 3, hi)
	}
}

func TestBuild_IncumbentUserKeepsPlot(t *testing.T) {
	old := build(Empty(), claim(parcel.User("alice"), 0, 0))

	requireOwner(t, build(old, claim(parcel.User("alice"), 0, 0), claim(parcel.User("bob"), 0, 0)), 0, 0, parcel.User("alice"))
	requireOwner(t, build(old, claim(parcel.User("bob"), 0, 0), claim(parcel.User("alice"), 0, 0)), 0, 0, parcel.User("alice"))
}

func TestBuild_FirstClaimantWinsWithoutIncumbent(t *testing.T) {
	requireOwner(t, build(Empty(), claim(parcel.User("alice"), 0, 0), claim(parcel.User("bob"), 0, 0)), 0, 0, parcel.User("alice"))
	requireOwner(t, build(Empty(), claim(parcel.User("bob"), 0, 0), claim(parcel.User("alice"), 0, 0)), 0, 0, parcel.User("bob"))
}

func TestBuild_IncumbentParcelIsReplaced(t *testing.T) {
	old := build(Empty(), claim(parcel.User("alice"), 0, 0))
	first := claim(parcel.User("alice"), 0, 0)
	second := claim(parcel.User("alice"), 0, 0)
	second.Art = parcel.NewGrid([]string{"new art"})

	c := build(old, first, second)
	got, ok := c.Parcel(pos.New(0, 0))
	require.True(t, ok)
	require.Equal(t, second, got)
}

func TestBuild_EmptyStreamAdvancesSeed(t *testing.T) {
	old := someCadastre()
	c := build(old)
	require.Zero(t, c.Len())
	require.Equal(t, old.Background().Next(), c.Background())

	_, ok := c.OwnerOf(pos.New(2, 2))
	require.False(t, ok)
}

func TestBuild_NilOldIsEmpty(t *testing.T) {
	c := Build(nil, slices.Values([]parcel.Parcel{claim(parcel.Public(), 1, 1)}))
	require.Equal(t, background.Initial.Next(), c.Background())
	requireOwner(t, c, 1, 1, parcel.Public())
}

func TestBuild_DoesNotModifyOld(t *testing.T) {
	old := someCadastre()
	seed := old.Background()
	build(old, claim(parcel.Admin(), 2, 3), claim(parcel.Admin(), 9, 9))

	require.Equal(t, 4, old.Len())
	require.Equal(t, seed, old.Background())
	requireOwner(t, old, 2, 3, parcel.User("troido"))
	_, ok := old.OwnerOf(pos.New(9, 9))
	require.False(t, ok)
}

func TestEmpty(t *testing.T) {
	c := Empty()
	require.Zero(t, c.Len())
	require.Equal(t, background.Initial, c.Background())
	require.Empty(t, c.Locations())
}

func TestLocations_SortedByRowThenColumn(t *testing.T) {
	require.Equal(t, []pos.Pos{
		pos.New(2, 2), pos.New(3, 2), pos.New(2, 3), pos.New(3, 3),
	}, someCadastre().Locations())
}
