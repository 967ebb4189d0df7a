// Package transponder defines the internal shape of a satellite transponder
// record and the normalization rules applied before it is serialized. The
// shape is independent of any registry's field names; adapters such as
// satnogs translate into it.
package transponder

// Raw is a transponder as delivered by a source, before normalization.
// Optional numeric fields are nil when the source had no value.
type Raw struct {
	SatelliteID int    // NORAD catalog number, grouping key
	RecordID    string // opaque unique id, used as a display-name placeholder
	Description string

	UplinkLowHz    *float64
	UplinkHighHz   *float64
	DownlinkLowHz  *float64
	DownlinkHighHz *float64
	BaudRate       *float64

	Inverting bool
	Alive     bool
}

// Record is a normalized transponder. Every numeric field is non-negative.
type Record struct {
	SatelliteID int
	RecordID    string
	Description string

	UplinkLowHz    float64
	UplinkHighHz   float64
	DownlinkLowHz  float64
	DownlinkHighHz float64
	BaudRate       float64

	Inverting bool
	Alive     bool
}

// Normalize null-fills the optional fields and derives the high bound of a
// single-frequency link from its low bound.
func Normalize(r Raw) Record {
	rec := Record{
		SatelliteID:    r.SatelliteID,
		RecordID:       r.RecordID,
		Description:    r.Description,
		UplinkLowHz:    orZero(r.UplinkLowHz),
		UplinkHighHz:   orZero(r.UplinkHighHz),
		DownlinkLowHz:  orZero(r.DownlinkLowHz),
		DownlinkHighHz: orZero(r.DownlinkHighHz),
		BaudRate:       orZero(r.BaudRate),
		Inverting:      r.Inverting,
		Alive:          r.Alive,
	}
	if rec.UplinkHighHz == 0 {
		rec.UplinkHighHz = rec.UplinkLowHz
	}
	if rec.DownlinkHighHz == 0 {
		rec.DownlinkHighHz = rec.DownlinkLowHz
	}
	return rec
}

// HasBothLinks reports whether the transponder has a usable uplink and
// downlink, which is when describing it as (non-)inverting makes sense.
func (r Record) HasBothLinks() bool {
	return r.UplinkLowHz > 0 && r.DownlinkLowHz > 0
}

// orZero maps nil and negative values to zero.
func orZero(v *float64) float64 {
	if v == nil || *v < 0 {
		return 0
	}
	return *v
}

// Float returns a pointer to v. Handy for building Raw literals.
func Float(v float64) *float64 {
	return &v
}
