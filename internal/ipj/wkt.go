package ipj

import (
	"math"
	"strconv"
	"strings"
)

// Physical constants and sentinels used by the projection fields.
const (
	// fieldDummy marks an absent value in IPJ numeric fields.
	fieldDummy = -1.0e32

	arcsec2Rad            = math.Pi / 648000
	scaleAdjustCoefficent = 0.000001
)

// WKT keyword tokens. Substitution works by locating these literals, so
// the order of the update calls in BuildWKT matters: later searches
// depend on the exact text earlier substitutions leave behind.
const (
	kwAxis        = "AXIS"
	kwUsage       = "USAGE"
	kwLengthUnit  = "LENGTHUNIT"
	kwGeogCRS     = "GEOGCRS"
	kwGeodCRS     = "GEODCRS"
	kwProjCRS     = "PROJCRS"
	kwBaseGeodCRS = "BASEGEODCRS"
	kwDatum       = "DATUM"
	kwEnsemble    = "ENSEMBLE"
	kwMethod      = "METHOD"
	kwID          = "ID"
	kwPrimeM      = "PRIMEM"
	kwEllipsoid   = "ELLIPSOID"
	kwParameter   = "PARAMETER"
	kwCS          = "CS"

	kwDerivedProjCRS      = "DERIVEDPROJCRS"
	kwBase                = "BASE"
	kwDerivingConversion  = "DERIVINGCONVERSION"
)

// Standard projection parameter names.
const (
	paramLonNaturalOrigin  = "Longitude of natural origin"
	paramLatNaturalOrigin  = "Latitude of natural origin"
	paramScaleFactor       = "Scale factor at natural origin"
	paramFalseEasting      = "False easting"
	paramFalseNorthing     = "False northing"
	paramAzimuth           = "Azimuth of initial line"
	paramLatFalseOrigin    = "Latitude of false origin"
	paramLonFalseOrigin    = "Longitude of false origin"
	paramFirstStdParallel  = "Latitude of 1st standard parallel"
	paramSecondStdParallel = "Latitude of 2nd standard parallel"
)

// emptyWKT is the substitution skeleton: a fully formed, valid WKT2
// PROJCRS with placeholder values. Every produced string starts from
// this text.
const emptyWKT = `PROJCRS["",
    BASEGEOGCRS["",
        DATUM["",
            ELLIPSOID["",0,0,
                LENGTHUNIT["metre",1]]],
        PRIMEM["Greenwich",0,
            ANGLEUNIT["degree",0.0174532925199433]],
        ID["EPSG",0]],
    CONVERSION["",
        METHOD["",
            ID["EPSG",9807]],
        PARAMETER["Latitude of natural origin",0,
            ANGLEUNIT["degree",0.0174532925199433],
            ID["EPSG",8801]],
        PARAMETER["Longitude of natural origin",0,
            ANGLEUNIT["degree",0.0174532925199433],
            ID["EPSG",8802]],
        PARAMETER["Scale factor at natural origin",0,
            SCALEUNIT["unity",1],
            ID["EPSG",8805]],
        PARAMETER["Azimuth of initial line",0,
            SCALEUNIT["degree",1],
            ID["EPSG",8813]],
        PARAMETER["Latitude of false origin",0,
            SCALEUNIT["degree",1],
            ID["EPSG",8821]],
        PARAMETER["Longitude of false origin",0,
            SCALEUNIT["degree",1],
            ID["EPSG",8822]],
        PARAMETER["Latitude of 1st standard parallel",0,
            SCALEUNIT["degree",1],
            ID["EPSG",8823]],
        PARAMETER["Latitude of 2nd standard parallel",0,
            SCALEUNIT["unity",1],
            ID["EPSG",8824]],
        PARAMETER["False easting",0,
            LENGTHUNIT["metre",1],
            ID["EPSG",8806]],
        PARAMETER["False northing",0,
            LENGTHUNIT["metre",1],
            ID["EPSG",8807]]],
    CS[Cartesian,2],
        AXIS["(E)",east,
            ORDER[1],
            LENGTHUNIT["metre",1]],
        AXIS["(N)",north,
            ORDER[2],
            LENGTHUNIT["metre",1]],
   ID["",0]]]`

// wktFields is everything the synthesizer substitutes into the
// skeleton, derived from the DEF_X and DEF_X3 records.
type wktFields struct {
	projectName   string
	crsName       string
	datumName     string
	ellipsoidName string
	radius        float64
	invFlattening float64

	conversionName string
	axisUnit       string
	axisScale      float64
	primeMeridian  float64

	lonNaturalOrigin  float64
	latNaturalOrigin  float64
	scaleFactor       float64
	falseEasting      float64
	falseNorthing     float64
	azimuth           float64
	latFalseOrigin    float64
	lonFalseOrigin    float64
	firstStdParallel  float64
	secondStdParallel float64

	trfName  string
	trfX     float64
	trfY     float64
	trfZ     float64
	trfRx    float64
	trfRy    float64
	trfRz    float64
	trfScale float64

	authorityName string
	authorityID   int32
}

// BuildWKT synthesizes a WKT2 string from the decoded projection
// records. The result is compacted: no newlines, no spaces outside
// quoted substrings.
func BuildWKT(x *DefX, x3 *DefX3) string {
	f := wktFields{
		projectName:   x.IPJ,
		crsName:       x.Datum,
		datumName:     x.Proj,
		ellipsoidName: x.Ellipsoid,
		radius:        x.Radius,

		conversionName: ConversionName(x.ProjType),
		axisScale:      x.ScaleAdjust,
		primeMeridian:  x.PrimeMeridian,

		latNaturalOrigin:  x.Params[0],
		lonNaturalOrigin:  x.Params[1],
		azimuth:           x.Params[2],
		latFalseOrigin:    x.Params[2],
		lonFalseOrigin:    x.Params[3],
		scaleFactor:       x.Params[4],
		falseEasting:      x.Params[5],
		falseNorthing:     x.Params[6],
		firstStdParallel:  x.Params[0],
		secondStdParallel: x.Params[1],

		trfName: x.DatumTrf,
		trfX:    x.Dx,
		trfY:    x.Dy,
		trfZ:    x.Dz,

		authorityName: x3.Authority,
		authorityID:   x3.AuthoritativeID,
	}

	if x.Eccentricity != fieldDummy && x.Eccentricity != 0 {
		flattening := 1 - math.Sqrt(1-x.Eccentricity*x.Eccentricity)
		f.invFlattening = 1 / flattening
	}

	if x.UnitsID == "m" {
		f.axisUnit = "metre"
	} else {
		f.axisUnit = x.UnitsID
	}

	// Rotations are stored in radians and scale as a ratio; WKT wants
	// arc-seconds and parts per million.
	f.trfRx, f.trfRy, f.trfRz = fieldDummy, fieldDummy, fieldDummy
	if x.Rx != fieldDummy {
		f.trfRx = x.Rx / arcsec2Rad
	}
	if x.Ry != fieldDummy {
		f.trfRy = x.Ry / arcsec2Rad
	}
	if x.Rz != fieldDummy {
		f.trfRz = x.Rz / arcsec2Rad
	}
	if x.ScaleAdjust != fieldDummy && x.ScaleAdjust != 0 && x.ScaleAdjust != 1 {
		f.trfScale = (x.ScaleAdjust - 1.0) / scaleAdjustCoefficent
	} else {
		f.trfScale = x.ScaleAdjust
	}

	return buildWKT(f)
}

// buildWKT runs the ordered substitution sequence over the skeleton.
func buildWKT(f wktFields) string {
	wkt := emptyWKT

	wkt = updateName(wkt, kwProjCRS, f.projectName)
	wkt = updateName(wkt, kwGeogCRS, f.crsName)
	wkt = updateName(wkt, kwGeodCRS, f.crsName)
	wkt = updateName(wkt, kwBaseGeodCRS, f.crsName)
	wkt = updateName(wkt, kwDatum, f.datumName)
	wkt = updateName(wkt, kwEnsemble, f.datumName)
	wkt = updateEllipsoid(wkt, f.ellipsoidName, f.radius, f.invFlattening)
	wkt = updateName(wkt, kwMethod, f.conversionName)
	wkt = updateAxisUnits(wkt, f.axisUnit, f.axisScale)
	wkt = updateID(wkt, f.authorityName, f.authorityID)
	wkt = updatePrimeMeridian(wkt, f.primeMeridian)
	wkt = updateParameter(wkt, paramLonNaturalOrigin, f.lonNaturalOrigin)
	wkt = updateParameter(wkt, paramLatNaturalOrigin, f.latNaturalOrigin)
	wkt = updateParameter(wkt, paramScaleFactor, f.scaleFactor)
	wkt = updateParameter(wkt, paramFalseEasting, f.falseEasting)
	wkt = updateParameter(wkt, paramFalseNorthing, f.falseNorthing)
	wkt = updateParameter(wkt, paramAzimuth, f.azimuth)
	wkt = updateParameter(wkt, paramLatFalseOrigin, f.latFalseOrigin)
	wkt = updateParameter(wkt, paramLonFalseOrigin, f.lonFalseOrigin)
	wkt = updateParameter(wkt, paramFirstStdParallel, f.firstStdParallel)
	wkt = updateParameter(wkt, paramSecondStdParallel, f.secondStdParallel)

	if f.trfName != "" {
		wkt = derivedProjWKT(wkt, f)
	}

	return compactWKT(wkt)
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// updateName replaces a keyword's name argument, rewriting from the
// keyword to the end of its line.
func updateName(wkt, keyword, value string) string {
	init := strings.Index(wkt, keyword)
	if init == -1 {
		return wkt
	}
	end := strings.Index(wkt[init:], "\n")
	if end == -1 {
		return wkt
	}
	return wkt[:init] + keyword + `["` + value + `",` + wkt[init+end:]
}

// updateEllipsoid rewrites the ellipsoid name, radius and inverse
// flattening.
func updateEllipsoid(wkt, name string, radius, invFlattening float64) string {
	init := strings.Index(wkt, kwEllipsoid)
	if init == -1 {
		return wkt
	}
	end := strings.Index(wkt[init:], "\n")
	if end == -1 {
		return wkt
	}
	repl := kwEllipsoid + `["` + name + `",` + fmtFloat(radius) + `,` + fmtFloat(invFlattening) + `,`
	return wkt[:init] + repl + wkt[init+end:]
}

// updateAxisUnits rewrites the length unit of every AXIS clause.
func updateAxisUnits(wkt, unit string, scale float64) string {
	pos := strings.Index(wkt, kwAxis)
	for pos != -1 {
		wkt = updateLengthUnit(wkt, pos, unit, scale)
		next := strings.Index(wkt[pos+1:], kwAxis)
		if next == -1 {
			break
		}
		pos += 1 + next
	}
	return wkt
}

func updateLengthUnit(wkt string, init int, unit string, scale float64) string {
	li := strings.Index(wkt[init:], kwLengthUnit)
	if li == -1 {
		return wkt
	}
	li += init
	le := strings.Index(wkt[li:], "\n")
	if le == -1 {
		return wkt
	}
	repl := kwLengthUnit + `["` + unit + `",` + fmtFloat(scale) + `]],`
	return wkt[:li] + repl + wkt[li+le:]
}

// updateID rewrites the trailing authority ID. Written only when both
// an authority name and a nonzero code are present.
func updateID(wkt, authorityName string, authorityCode int32) string {
	pos := strings.LastIndex(wkt, kwID)
	if pos == -1 || authorityCode == 0 || authorityName == "" {
		return wkt
	}
	return wkt[:pos] + kwID + `["` + authorityName + `",` + strconv.Itoa(int(authorityCode)) + `]]`
}

func updatePrimeMeridian(wkt string, primeMeridian float64) string {
	init := strings.Index(wkt, kwPrimeM)
	if init == -1 {
		return wkt
	}
	end := strings.Index(wkt[init:], "\n")
	if end == -1 {
		return wkt
	}
	repl := kwPrimeM + `["Greenwich",` + fmtFloat(primeMeridian) + `,`
	return wkt[:init] + repl + wkt[init+end:]
}

// updateParameter rewrites one projection parameter value. The dummy
// sentinel leaves the skeleton default untouched.
func updateParameter(wkt, name string, value float64) string {
	init := strings.Index(wkt, name)
	if init == -1 || value == fieldDummy {
		return wkt
	}
	end := strings.Index(wkt[init:], "\n")
	if end == -1 {
		return wkt
	}
	end += init
	// Back up over `PARAMETER["` to rewrite the whole clause head.
	start := init - len(kwParameter) - 2
	repl := kwParameter + `["` + name + `",` + fmtFloat(value) + `,`
	return wkt[:start] + repl + wkt[end:]
}

// derivedProjWKT wraps the CRS in a DERIVEDPROJCRS applying the datum
// transformation as a deriving conversion.
func derivedProjWKT(wkt string, f wktFields) string {
	wkt = removeNonTransformationParams(wkt)

	return kwDerivedProjCRS + `["` + f.trfName + `",` +
		kwBase + wkt + `,` +
		derivingConversion(f) + `,` +
		transformationCSAxis(f.axisUnit, f.axisScale) + `]`
}

// removeNonTransformationParams strips the CS, AXIS and USAGE clauses
// and the surplus closing bracket so the CRS can serve as a BASE block.
func removeNonTransformationParams(wkt string) string {
	const (
		singleBracket = "],"
		doubleBracket = "]],"
		tripleBracket = "]]],"
	)

	if begin := strings.Index(wkt, kwCS); begin != -1 {
		if end := strings.Index(wkt[begin:], singleBracket); end != -1 {
			wkt = wkt[:begin] + wkt[begin+end+len(singleBracket):]
		}
	}

	for {
		begin := strings.Index(wkt, kwAxis)
		if begin == -1 {
			break
		}
		end := strings.Index(wkt[begin:], doubleBracket)
		if end == -1 {
			break
		}
		wkt = wkt[:begin] + wkt[begin+end+len(doubleBracket):]
	}

	if begin := strings.Index(wkt, kwUsage); begin != -1 {
		if end := strings.Index(wkt[begin:], doubleBracket); end != -1 {
			wkt = wkt[:begin] + wkt[begin+end+len(doubleBracket):]
		}
	}

	lastParam := strings.LastIndex(wkt, kwParameter)
	lastID := strings.LastIndex(wkt, kwID)
	if lastParam != -1 && lastID != -1 && lastID > lastParam {
		if begin := strings.LastIndex(wkt[:lastID], tripleBracket); begin != -1 {
			wkt = wkt[:begin] + wkt[begin+1:]
		}
	}

	return wkt
}

func derivingConversion(f wktFields) string {
	const (
		transformation = "Coordinate Frame rotation(geocentric domain)"
		epsgCode       = "1032"
	)

	return kwDerivingConversion + `[` +
		`"` + f.datumName + ` applying ` + transformation + `",` +
		rotationMethod(transformation, epsgCode) + `,` +
		linearParameter("X-axis translation", f.trfX) + `,` +
		linearParameter("Y-axis translation", f.trfY) + `,` +
		linearParameter("Z-axis translation", f.trfZ) + `,` +
		angularParameter("X-axis rotation", f.trfRx) + `,` +
		angularParameter("Y-axis rotation", f.trfRy) + `,` +
		angularParameter("Z-axis rotation", f.trfRz) + `,` +
		scalarParameter("Scale difference", f.trfScale) + `]`
}

func rotationMethod(name, epsgCode string) string {
	return kwMethod + `["` + name + `", ` + kwID + `["EPSG",` + epsgCode + `]]`
}

func linearParameter(name string, value float64) string {
	return kwParameter + `["` + name + `", ` + fmtFloat(value) + `, ` + kwLengthUnit + `["metre", 1.0]]`
}

func angularParameter(name string, value float64) string {
	return kwParameter + `["` + name + `", ` + fmtFloat(value) + `, ANGLEUNIT["arc-second", 4.84813681109536E-6]]`
}

func scalarParameter(name string, value float64) string {
	return kwParameter + `["` + name + `", ` + fmtFloat(value) + `, SCALEUNIT["parts per million", 1E-6]]`
}

func transformationCSAxis(unit string, scale float64) string {
	return kwCS + `[Cartesian,2],` +
		axisParameter("E", "1", unit, scale) + `,` +
		axisParameter("N", "2", unit, scale)
}

func axisParameter(direction, order, unit string, scale float64) string {
	full := "north"
	if direction == "E" {
		full = "east"
	}
	return kwAxis + `["(` + direction + `)",` + full + `,` +
		`ORDER[` + order + `],` +
		kwLengthUnit + `["` + unit + `",` + fmtFloat(scale) + `]]`
}

// compactWKT removes newlines and all spaces outside quoted substrings.
// Quote state toggles on every '"'. Idempotent: a second pass finds
// nothing left to strip.
func compactWKT(wkt string) string {
	var sb strings.Builder
	sb.Grow(len(wkt))
	inQuotes := false
	for i := 0; i < len(wkt); i++ {
		c := wkt[i]
		if c == '\n' {
			continue
		}
		if c == '"' {
			inQuotes = !inQuotes
		}
		if !inQuotes && c == ' ' {
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String()
}
