package geo

// Metropolitan scope: incidents are restricted to the districts of the Lima
// province and the Callao constitutional province.

var limaDistricts = map[string]struct{}{
	"Ancón": {}, "Ate": {}, "Barranco": {}, "Breña": {}, "Carabayllo": {},
	"Chaclacayo": {}, "Chorrillos": {}, "Cieneguilla": {}, "Comas": {},
	"El Agustino": {}, "Independencia": {}, "Jesús María": {}, "La Molina": {},
	"La Victoria": {}, "Lima": {}, "Lince": {}, "Los Olivos": {},
	"Lurigancho": {}, "Lurín": {}, "Magdalena del Mar": {}, "Miraflores": {},
	"Pachacámac": {}, "Pucusana": {}, "Pueblo Libre": {}, "Puente Piedra": {},
	"Punta Hermosa": {}, "Punta Negra": {}, "Rímac": {}, "San Bartolo": {},
	"San Borja": {}, "San Isidro": {}, "San Juan de Lurigancho": {},
	"San Juan de Miraflores": {}, "San Luis": {}, "San Martín de Porres": {},
	"San Miguel": {}, "Santa Anita": {}, "Santa María del Mar": {},
	"Santa Rosa": {}, "Santiago de Surco": {}, "Surquillo": {},
	"Villa El Salvador": {}, "Villa María del Triunfo": {},
}

var callaoDistricts = map[string]struct{}{
	"Callao": {}, "Bellavista": {}, "Carmen de la Legua Reynoso": {},
	"La Perla": {}, "La Punta": {}, "Ventanilla": {}, "Mi Perú": {},
}

// Bounding box covering Lima plus Callao, kept in sync with the map frontend.
const (
	bboxSouth = -12.60
	bboxWest  = -77.35
	bboxNorth = -11.50
	bboxEast  = -76.25
)

// IsMetropolitanDistrict reports whether name belongs to the fixed allow-list
// of Lima and Callao districts.
func IsMetropolitanDistrict(name string) bool {
	if _, ok := limaDistricts[name]; ok {
		return true
	}
	_, ok := callaoDistricts[name]
	return ok
}

// InMetropolitanBBox reports whether a coordinate falls inside the
// metropolitan bounding box.
func InMetropolitanBBox(p Point) bool {
	return p.Lat >= bboxSouth && p.Lat <= bboxNorth &&
		p.Lon >= bboxWest && p.Lon <= bboxEast
}
