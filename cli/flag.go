package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ehri-project/ehri-explorer/api/geodata"
	"github.com/spf13/pflag"
)

// bboxFlag parses a "minLat,minLon,maxLat,maxLon" bounding box
type bboxFlag struct {
	IsSet bool
	Value geodata.BBox
}

// String implements pflag.Value.
func (f *bboxFlag) String() string {
	return fmt.Sprintf("%g,%g,%g,%g", f.Value.MinY, f.Value.MinX, f.Value.MaxY, f.Value.MaxX)
}

func (f *bboxFlag) Set(value string) error {
	parts := strings.Split(value, ",")
	if len(parts) != 4 {
		return fmt.Errorf("expected minLat,minLon,maxLat,maxLon but got %q", value)
	}

	nums := make([]float64, 4)
	for i, p := range parts {
		n, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return fmt.Errorf("invalid coordinate %q", p)
		}
		nums[i] = n
	}

	f.Value = geodata.BBox{MinY: nums[0], MinX: nums[1], MaxY: nums[2], MaxX: nums[3]}
	f.IsSet = true
	return nil
}

func (f *bboxFlag) Type() string {
	return "bbox"
}

var _ pflag.Value = &bboxFlag{}
