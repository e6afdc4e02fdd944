package config

// atomicSections lists the keys whose values are never merged key-by-key. A
// user who supplies any of these sections gets exactly their section; no
// default keys leak into it.
var atomicSections = map[string]struct{}{
	"grid": {},
}

// IsAtomicSection reports whether key names a section that Merge replaces
// wholesale instead of merging.
func IsAtomicSection(key string) bool {
	_, ok := atomicSections[key]
	return ok
}

// Merge fills user with the entries of defaults that it lacks, in place.
//
// For every key of defaults: if user has no such key, a deep copy of the
// default is inserted. If both values are maps and the key is not an atomic
// section, the maps are merged recursively. Otherwise the user value is kept
// as is, including the case where the user gives a scalar for a key whose
// default is a map; that is the documented way to override a whole section
// with a single value.
func Merge(user, defaults Map) {
	if user == nil {
		return
	}
	for key, def := range defaults {
		cur, ok := user[key]
		if !ok {
			user[key] = def.Clone()
			continue
		}
		if IsAtomicSection(key) {
			continue
		}
		curMap, curIsMap := cur.AsMap()
		defMap, defIsMap := def.AsMap()
		if curIsMap && defIsMap {
			Merge(curMap, defMap)
		}
	}
}
