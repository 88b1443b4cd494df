package spatial

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func TestDetectPRJ(t *testing.T) {
	tests := []struct {
		name string
		wkt  string
		want CRS
	}{
		{
			name: "wgs84 geographic",
			wkt:  `GEOGCS["GCS_WGS_1984",DATUM["D_WGS_1984",SPHEROID["WGS_1984",6378137.0,298.257223563]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]]`,
			want: CRSWGS84,
		},
		{
			name: "epsg 4326 authority",
			wkt:  `GEOGCS["WGS 84",AUTHORITY["EPSG","4326"]]`,
			want: CRSWGS84,
		},
		{
			name: "web mercator wraps a wgs84 geogcs",
			wkt:  `PROJCS["WGS_1984_Web_Mercator_Auxiliary_Sphere",GEOGCS["GCS_WGS_1984",DATUM["D_WGS_1984",SPHEROID["WGS_1984",6378137.0,298.257223563]]],PROJECTION["Mercator_Auxiliary_Sphere"],AUTHORITY["EPSG","3857"]]`,
			want: CRSWebMercator,
		},
		{
			name: "pseudo-mercator by name",
			wkt:  `PROJCS["WGS 84 / Pseudo-Mercator"]`,
			want: CRSWebMercator,
		},
		{
			name: "unrelated projection",
			wkt:  `PROJCS["NAD_1983_StatePlane_California_V",GEOGCS["GCS_North_American_1983"]]`,
			want: CRSUndefined,
		},
		{
			name: "empty",
			wkt:  "",
			want: CRSUndefined,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectPRJ(tt.wkt))
		})
	}
}

func TestCRSString(t *testing.T) {
	assert.Equal(t, "EPSG:4326", CRSWGS84.String())
	assert.Equal(t, "EPSG:3857", CRSWebMercator.String())
	assert.Equal(t, "undefined", CRSUndefined.String())
}

func TestReproject_SameCRS(t *testing.T) {
	p := rect(0, 0, 10, 10)

	got, err := Reproject(p, CRSWGS84, CRSWGS84)
	require.NoError(t, err)
	assert.Same(t, p, got)
}

func TestReproject_UndefinedPassesThrough(t *testing.T) {
	p := rect(0, 0, 10, 10)

	got, err := Reproject(p, CRSUndefined, CRSWebMercator)
	require.NoError(t, err)
	assert.Same(t, p, got)

	got, err = Reproject(p, CRSWGS84, CRSUndefined)
	require.NoError(t, err)
	assert.Same(t, p, got)
}

func TestReproject_KnownCorner(t *testing.T) {
	p := rect(0, 0, 180, 45)

	got, err := Reproject(p, CRSWGS84, CRSWebMercator)
	require.NoError(t, err)

	flat := got.(*geom.Polygon).LinearRing(0).FlatCoords()
	// Corner (180, 0) maps to the projection's maximum easting at zero
	// northing.
	assert.InDelta(t, 20037508.342789244, flat[2], 1e-6)
	assert.InDelta(t, 0, flat[3], 1e-6)
}

func TestReproject_RoundTrip(t *testing.T) {
	p := rect(-77.12, 38.79, -76.91, 38.995)

	merc, err := Reproject(p, CRSWGS84, CRSWebMercator)
	require.NoError(t, err)

	back, err := Reproject(merc, CRSWebMercator, CRSWGS84)
	require.NoError(t, err)

	want := p.FlatCoords()
	gotFlat := back.(*geom.Polygon).FlatCoords()
	require.Len(t, gotFlat, len(want))
	for i := range want {
		assert.InDelta(t, want[i], gotFlat[i], 1e-6)
	}
}

func TestReproject_DoesNotMutateInput(t *testing.T) {
	p := rect(-10, -10, 10, 10)
	before := append([]float64(nil), p.FlatCoords()...)

	_, err := Reproject(p, CRSWGS84, CRSWebMercator)
	require.NoError(t, err)
	assert.Equal(t, before, p.FlatCoords())
}

func TestReproject_ClampsPolarLatitude(t *testing.T) {
	p := rect(-180, 80, 180, 90)

	got, err := Reproject(p, CRSWGS84, CRSWebMercator)
	require.NoError(t, err)

	for _, v := range got.(*geom.Polygon).FlatCoords() {
		assert.False(t, math.IsInf(v, 0))
		assert.False(t, math.IsNaN(v))
	}
}

func TestReproject_MultiPolygon(t *testing.T) {
	mp := geom.NewMultiPolygon(geom.XY).MustSetCoords([][][]geom.Coord{
		{{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}},
		{{{20, 20}, {30, 20}, {30, 30}, {20, 30}, {20, 20}}},
	})

	got, err := Reproject(mp, CRSWGS84, CRSWebMercator)
	require.NoError(t, err)

	gotMP, ok := got.(*geom.MultiPolygon)
	require.True(t, ok)
	assert.Equal(t, 2, gotMP.NumPolygons())
}

func TestReproject_UnsupportedPair(t *testing.T) {
	_, err := Reproject(rect(0, 0, 1, 1), CRS(2154), CRSWGS84)
	assert.Error(t, err)
}

func TestReproject_NonAreaGeometry(t *testing.T) {
	pt := geom.NewPointFlat(geom.XY, []float64{1, 2})

	_, err := Reproject(pt, CRSWGS84, CRSWebMercator)
	assert.Error(t, err)
}
