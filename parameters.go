// SGI FREE SOFTWARE LICENSE B (Version 2.0, Sept. 18, 2008)
// Copyright (C) [dates of first publication] Silicon Graphics, Inc.
// All Rights Reserved.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
// of the Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice including the dates of first publication and either this
// permission notice or a reference to http://oss.sgi.com/projects/FreeB/ shall be
// included in all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR IMPLIED,
// INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS FOR A
// PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL SILICON GRAPHICS, INC.
// BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT,
// TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE
// OR OTHER DEALINGS IN THE SOFTWARE.
//
// Except as contained in this notice, the name of Silicon Graphics, Inc. shall not
// be used in advertising or otherwise to promote the sale, use or other dealings in
// this Software without prior written authorization from Silicon Graphics, Inc.

package brepmesh

import (
	"math"

	"github.com/pkg/errors"
)

// ErrConfiguration is returned by Validate and Perform for parameters a run
// cannot start with.
var ErrConfiguration = errors.New("brepmesh: invalid configuration")

const (
	// confusion is the smallest meaningful length.
	confusion = 1e-7
	// angularConfusion is the smallest meaningful angle.
	angularConfusion = 1e-12
	// relMinSize scales the deflection into the default minimum size.
	relMinSize = 0.1
)

// Parameters control a meshing run. Non-positive interior values and
// MinSize mean "derive from the others".
type Parameters struct {
	// Deflection is the linear deflection of edges, and of faces unless
	// DeflectionInterior is set. With Relative it is a ratio of the size of
	// each edge or face.
	Deflection float64
	// Angle is the angular deflection of edges, in radians.
	Angle float64

	DeflectionInterior float64
	AngleInterior      float64

	// MinSize is the size under which elements are not subdivided.
	MinSize float64

	Relative   bool
	InParallel bool

	// InternalVerticesMode adds the internal vertices of faces to their
	// meshes.
	InternalVerticesMode bool
	// ControlSurfaceDeflection refines face interiors until they follow
	// the surface within the interior deflection.
	ControlSurfaceDeflection bool

	// AdjustMinSize lowers MinSize on edges shorter than ten times it.
	AdjustMinSize bool
	// ForceFaceDeflection meshes faces with the interior deflection alone,
	// ignoring their edges and tolerance.
	ForceFaceDeflection bool
	// AllowQualityDecrease remeshes faces whose stored mesh is finer than
	// requested.
	AllowQualityDecrease bool
}

// DefaultParameters returns the parameters used when a caller only picks
// a deflection.
func DefaultParameters() Parameters {
	return Parameters{
		Deflection:               0.001,
		Angle:                    0.5,
		DeflectionInterior:       -1,
		AngleInterior:            -1,
		MinSize:                  -1,
		InternalVerticesMode:     true,
		ControlSurfaceDeflection: true,
	}
}

// Validate checks p and fills in the derived values.
func (p Parameters) Validate() (Parameters, error) {
	if !(p.Deflection > confusion) || math.IsInf(p.Deflection, 0) {
		return p, errors.Wrapf(ErrConfiguration, "deflection %g must be finite and greater than %g", p.Deflection, confusion)
	}
	if !(p.Angle > angularConfusion) || math.IsInf(p.Angle, 0) {
		return p, errors.Wrapf(ErrConfiguration, "angle %g must be finite and greater than %g", p.Angle, angularConfusion)
	}
	// Zero and negative interior values mean unset.
	if p.DeflectionInterior <= 0 {
		p.DeflectionInterior = p.Deflection
	} else if !(p.DeflectionInterior > confusion) || math.IsInf(p.DeflectionInterior, 0) {
		return p, errors.Wrapf(ErrConfiguration, "interior deflection %g must be finite and greater than %g", p.DeflectionInterior, confusion)
	}
	if p.AngleInterior <= 0 {
		p.AngleInterior = 2 * p.Angle
	} else if !(p.AngleInterior > angularConfusion) || math.IsInf(p.AngleInterior, 0) {
		return p, errors.Wrapf(ErrConfiguration, "interior angle %g must be finite and greater than %g", p.AngleInterior, angularConfusion)
	}
	if p.MinSize <= 0 {
		p.MinSize = math.Max(relMinSize*math.Min(p.Deflection, p.DeflectionInterior), confusion)
	} else if math.IsNaN(p.MinSize) || math.IsInf(p.MinSize, 0) {
		return p, errors.Wrapf(ErrConfiguration, "minimum size %g must be finite", p.MinSize)
	}
	return p, nil
}
