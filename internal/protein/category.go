package protein

// Category is the bucket a PSM is sorted into
type Category int

const (
	Unclassified Category = iota
	Unique
	Shared
	FeatureUnique
	FeatureShared
)

var categoryNames = [...]string{"unclassified", "unique", "shared", "unique_with_features", "shared_with_only_features"}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "unknown"
	}
	return categoryNames[c]
}

// Bucket maps a classification result to a single category. Feature
// categories take precedence over their plain counterparts.
func Bucket(r Result) Category {
	switch {
	case r.FeatureUnique:
		return FeatureUnique
	case r.Unique:
		return Unique
	case r.FeatureShared:
		return FeatureShared
	case r.Shared:
		return Shared
	}
	return Unclassified
}
