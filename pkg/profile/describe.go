package profile

import (
	"github.com/wdm0006/synthprep/pkg/frame"
	"github.com/wdm0006/synthprep/pkg/metadata"
)

// DType names the declared dtype used for a frame kind.
func DType(k frame.Kind) string {
	switch k {
	case frame.KindBool:
		return "bool"
	case frame.KindInt:
		return "int64"
	case frame.KindFloat:
		return "float64"
	case frame.KindTime:
		return "datetime64[ns]"
	}
	return "object"
}

// Describe derives metadata from f: each column's dtype from its kind and
// its null share, and the global share of rows holding any null.
func Describe(f *frame.Frame) (*metadata.Metadata, error) {
	c := NewCollector(f.Schema(), 0)
	c.ConsumeFrame(f)
	profiles := c.Profiles()
	cols := make([]metadata.Column, len(profiles))
	for i, cp := range profiles {
		cols[i] = metadata.Column{Name: cp.Name, DType: DType(cp.Kind), NAPercentage: cp.NullShare()}
	}
	return metadata.New(cols, c.RowNullShare())
}
