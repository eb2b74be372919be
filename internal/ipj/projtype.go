package ipj

// Projection type codes stored in DefX.ProjType.
const (
	CSUnknown                       = 0
	CSGeographic                    = 1
	CSLambertConformalConic1SP      = 2
	CSLambertConformalConic2SP      = 3
	CSLambertConformalConic2SPBelg  = 4
	CSAlbersConic                   = 5
	CSEquidistantConic              = 6
	CSPolyconic                     = 7
	CSMercator1SP                   = 8
	CSMercator2SP                   = 9
	CSCassiniSoldner                = 10
	CSTransverseMercator            = 11
	CSTransverseMercatorSouth       = 12
	CSTransverseMercatorSpherical   = 13
	CSPolarStereographic            = 14
	CSObliqueStereographic          = 15
	CSNewZealand                    = 16
	CSHotineObliqueMercator         = 17
	CSHotineObliqueMercator2Point   = 18
	CSLabordeObliqueMercator        = 19
	CSSwissObliqueCylindrical       = 20
	CSObliqueMercator               = 21
	CSLambertAzimuthalEqualArea     = 22
	CSRobinson                      = 23
	CSKrovakNorthOrientated         = 24
	CSKrovakModifiedNorthOrientated = 25
	CSLocal                         = 26
	CSVanDerGrinten                 = 27
	CSWebMercator                   = 28
	CSPolarStereographicB           = 29
	CSTransverseMercatorComplex     = 30
	CSMollweide                     = 31
	CSMax                           = 32
)

// conversionNames maps projection type codes to the WKT conversion
// method names emitted by the reference converter, misspellings
// included; downstream consumers match on these exact strings.
var conversionNames = map[int32]string{
	CSLambertConformalConic1SP:      "Lambert Conic Conformal (1SP)",
	CSLambertConformalConic2SP:      "Lambert Conic Conformal (2SP)",
	CSLambertConformalConic2SPBelg:  "Lambert Conic Conformal (2SP Belgium)",
	CSKrovakNorthOrientated:         "Krovak (North Orientated)",
	CSKrovakModifiedNorthOrientated: "Krovak Modified (North Orientated)",
	CSAlbersConic:                   "Albers Equal Area",
	CSPolyconic:                     "American Polyconic",
	CSMercator1SP:                   "Mercator",
	CSTransverseMercatorSpherical:   "Mercator (Spherical)",
	CSWebMercator:                   "Web Mercator",
	CSCassiniSoldner:                "Cassini-Soldner",
	CSTransverseMercator:            "Transverse Mercator",
	CSTransverseMercatorSouth:       "Transverse Mercator (South Orientated)",
	CSObliqueMercator:               "Oblique Mercator",
	CSHotineObliqueMercator:         "Hotine Oblique Mercator",
	CSLabordeObliqueMercator:        "Laborde Oblique Mercator",
	CSLambertAzimuthalEqualArea:     "Lambert Cylindrical Equal Area (Spherical)",
	CSPolarStereographic:            "Stereographic",
	CSObliqueStereographic:          "Oblique Stereographic",
	CSRobinson:                      "Robison",
	CSVanDerGrinten:                 "Van Der Grinten",
	CSMollweide:                     "Mollweide",
	CSNewZealand:                    "New Zealand Map Grid",
	CSTransverseMercatorComplex:     "Mercator variant C",
	CSGeographic:                    "Geographic",
	CSLocal:                         "Local",
}

// ConversionName returns the WKT conversion method name for a
// projection type code.
func ConversionName(projType int32) string {
	if name, ok := conversionNames[projType]; ok {
		return name
	}
	return "Unknown Projection"
}
