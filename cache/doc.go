// Package cache provides the variant cache of a session.
//
// Bucketed stores values under structured keys that are not comparable
// with == cheaply, or whose equality is a policy choice. A checksum picks
// the bucket and an equality function picks the entry:
//
//	c := cache.NewBucketed[settings.PipelineSettings, *Variant](0,
//	    settings.Checksum, settings.Equal)
//	if v, ok := c.Lookup(&s); ok {
//	    return v
//	}
//	c.Insert(&s, build(&s))
//
// A full cache is cleared entirely on the next insert.
package cache
