package InputParameters

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var roomInput = []byte(`
Title: "Shoebox room"
MeshFile: room.msh
CFL: 0.5
InitType: Monopole
PolynomialOrder: 4
FinalTime: 0.01
BCLabels:
  floor: 11
  ceiling: 12
  walls: 13
Source:
  Position: [1.5, 2.0, 1.2]
  HalfWidth: 0.2
`)

func TestParse(t *testing.T) {
	var ip InputParametersAcoustics
	require.NoError(t, ip.Parse(roomInput))
	assert.Equal(t, "Shoebox room", ip.Title)
	assert.Equal(t, "room.msh", ip.MeshFile)
	assert.Equal(t, 0.5, ip.CFL)
	assert.Equal(t, 4, ip.PolynomialOrder)
	assert.Equal(t, map[string]int{"floor": 11, "ceiling": 12, "walls": 13}, ip.BCLabels)
	assert.Equal(t, [3]float64{1.5, 2.0, 1.2}, ip.Source.Position)
	assert.Equal(t, 0.2, ip.Source.HalfWidth)
	assert.NoError(t, ip.Validate())

	assert.Error(t, ip.Parse([]byte("BCLabels: [1, 2")))
}

func TestValidate(t *testing.T) {
	valid := func() InputParametersAcoustics {
		var ip InputParametersAcoustics
		require.NoError(t, ip.Parse(roomInput))
		return ip
	}
	tests := []struct {
		name   string
		modify func(ip *InputParametersAcoustics)
	}{
		{"no labels", func(ip *InputParametersAcoustics) { ip.BCLabels = nil }},
		{"order zero", func(ip *InputParametersAcoustics) { ip.PolynomialOrder = 0 }},
		{"negative time", func(ip *InputParametersAcoustics) { ip.FinalTime = -1 }},
		{"unknown init", func(ip *InputParametersAcoustics) { ip.InitType = "PlaneWave" }},
		{"zero half width", func(ip *InputParametersAcoustics) { ip.Source.HalfWidth = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ip := valid()
			tt.modify(&ip)
			assert.Error(t, ip.Validate())
		})
	}

	ip := valid()
	ip.InitType = ""
	assert.NoError(t, ip.Validate(), "empty InitType defaults to Monopole")
	ip.InitType = "monopole"
	assert.NoError(t, ip.Validate())
}

func TestFprint(t *testing.T) {
	var ip InputParametersAcoustics
	require.NoError(t, ip.Parse(roomInput))
	var buf bytes.Buffer
	ip.Fprint(&buf)
	out := buf.String()
	assert.Contains(t, out, "\"Shoebox room\"")
	// Labels print sorted
	assert.Regexp(t, `(?s)BCLabels\[ceiling\] = 12.*BCLabels\[floor\] = 11.*BCLabels\[walls\] = 13`, out)
}
