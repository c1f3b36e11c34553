package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMetropolitanDistrict(t *testing.T) {
	assert.True(t, IsMetropolitanDistrict("Miraflores"))
	assert.True(t, IsMetropolitanDistrict("San Juan de Lurigancho"))
	assert.True(t, IsMetropolitanDistrict("Callao"))
	assert.True(t, IsMetropolitanDistrict("Mi Perú"))

	assert.False(t, IsMetropolitanDistrict("Arequipa"))
	assert.False(t, IsMetropolitanDistrict("miraflores")) // exact match only
	assert.False(t, IsMetropolitanDistrict(""))
}

func TestInMetropolitanBBox(t *testing.T) {
	assert.True(t, InMetropolitanBBox(Point{Lat: -12.0464, Lon: -77.0428}))
	assert.True(t, InMetropolitanBBox(Point{Lat: -11.85, Lon: -77.15}))

	assert.False(t, InMetropolitanBBox(Point{Lat: -13.5, Lon: -71.9}))  // Cusco
	assert.False(t, InMetropolitanBBox(Point{Lat: -12.0464, Lon: -75})) // east of box
}
