package pipeline

import (
	"github.com/gostructural/featurecut/cache"
	"github.com/gostructural/featurecut/feature"
	"github.com/gostructural/featurecut/profile"
	"github.com/gostructural/featurecut/resolve"
)

// fingerprintFor folds (feature kind, profile dimensions, params) plus
// the feature's resolved position into a single cache.Key. The resolved
// position participates because the cut solid a CutterFunc or
// cut.Handler returns is already oriented into engine space, so two
// features with identical kind/dimensions/params but different anchors
// build distinct solids and must not collide in the cache.
func fingerprintFor(f feature.Feature, p profile.Profile, pos resolve.Position3D) cache.Key {
	b := cache.NewFingerprint()
	b.String(f.Kind.String())

	d := p.Dimensions
	b.Float64(d.Length).Float64(d.Height).Float64(d.Width).Float64(d.Thickness)
	b.Float64(d.WebThickness).Float64(d.FlangeThickness).Float64(d.WallThickness)

	pm := f.Params
	b.Float64(pm.Diameter).Float64(pm.Depth).Float64(pm.Angle).Float64(pm.SinkAngle)
	b.Int(int(pm.HoleType)).Int(int(pm.CopingType)).Int(int(pm.WeldType))
	b.Float64(pm.ChamferLength).Float64(pm.Clearance)
	b.Float64(pm.NominalDiameter).Float64(pm.Pitch)
	b.Float64(pm.Radius).Float64(pm.StartAngle).Float64(pm.Spacing)
	for _, pt := range pm.Points {
		b.Float64(float64(pt.X)).Float64(float64(pt.Y)).Float64(float64(pt.Bulge))
	}
	b.Float64(pm.Size)

	b.Float64(float64(pos.Position[0])).Float64(float64(pos.Position[1])).Float64(float64(pos.Position[2]))
	b.Float64(float64(pos.Rotation.X)).Float64(float64(pos.Rotation.Y)).Float64(float64(pos.Rotation.Z))
	b.Int(int(pos.Face))

	return b.Sum()
}
