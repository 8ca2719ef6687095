package ingest

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/telco-sightings-go/internal/models"
	"github.com/jengzang/telco-sightings-go/internal/spatial"
)

func TestReadSitesSkipsMalformedRows(t *testing.T) {
	input := `site_id,coordinate
glo-cel-001,POINT (121.0437 14.5176)
glo-cel-002,POINT (abc 14.5)
glo-cel-003,LINESTRING (0 0, 1 1)
,POINT (121.05 14.55)
glo-cel-001,POINT (121.06 14.56)
glo-cel-004,POINT (121.0612 14.4981)
`
	sites, warnings, err := ReadSites(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, sites, 2)
	assert.Equal(t, "glo-cel-001", sites[0].ID)
	assert.Equal(t, 121.0437, sites[0].Longitude)
	assert.Equal(t, 14.5176, sites[0].Latitude)
	assert.NotEmpty(t, sites[0].CellToken)
	assert.Equal(t, "glo-cel-004", sites[1].ID)

	require.Len(t, warnings, 4)
	assert.Equal(t, 3, warnings[0].Line)
	assert.Contains(t, warnings[0].Reason, "glo-cel-002")
	assert.Contains(t, warnings[3].Reason, "duplicate")
}

func TestReadSitesAcceptsReferenceHeaders(t *testing.T) {
	input := "uid,coords\nglo-cel-001,POINT (121.0437 14.5176)\n"
	sites, warnings, err := ReadSites(strings.NewReader(input))
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Len(t, sites, 1)
}

func TestReadSitesMissingColumn(t *testing.T) {
	_, _, err := ReadSites(strings.NewReader("site_id,wkt\na,POINT (1 1)\n"))
	assert.ErrorContains(t, err, "coordinate")

	_, _, err = ReadSites(strings.NewReader(""))
	assert.ErrorIs(t, err, errMissingHeader)
}

func TestReadSubscribersIgnoresDemographics(t *testing.T) {
	input := `subscriber_id,gender,age,name
glo-sub-001,female,31,Ana
glo-sub-002,male,44,Ben
glo-sub-001,male,20,Dup
`
	ids, warnings, err := ReadSubscribers(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"glo-sub-001", "glo-sub-002"}, ids)
	assert.Len(t, warnings, 1)
}

func TestReadCandidates(t *testing.T) {
	points, warnings, err := ReadCandidates(strings.NewReader("longitude,latitude\n121.1,14.5\nx,14.5\n121.2,99\n"))
	require.NoError(t, err)
	assert.Equal(t, []spatial.Point{{Lon: 121.1, Lat: 14.5}}, points)
	assert.Len(t, warnings, 2)

	points, warnings, err = ReadCandidates(strings.NewReader("coordinate\nPOINT (121.1 14.5)\n"))
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, []spatial.Point{{Lon: 121.1, Lat: 14.5}}, points)

	_, _, err = ReadCandidates(strings.NewReader("x,y\n1,2\n"))
	assert.Error(t, err)
}

func TestWriteThenReadSites(t *testing.T) {
	sites := []models.Site{
		models.NewSite("glo-cel-001", spatial.Point{Lon: 121.0437, Lat: 14.5176}),
		models.NewSite("glo-cel-002", spatial.Point{Lon: 121.0509, Lat: 14.5547}),
	}
	var buf bytes.Buffer
	require.NoError(t, WriteSites(&buf, sites))

	got, warnings, err := ReadSites(&buf)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, sites, got)
}

func TestWriteSubscribersAndCandidates(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSubscribers(&buf, []string{"glo-sub-001", "glo-sub-002"}))
	assert.Equal(t, "subscriber_id\nglo-sub-001\nglo-sub-002\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteCandidates(&buf, []spatial.Point{{Lon: 121.5, Lat: 14.25}}))
	assert.Equal(t, "longitude,latitude\n121.5,14.25\n", buf.String())
}
