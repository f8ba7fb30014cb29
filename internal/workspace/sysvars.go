package workspace

import (
	"goapl/internal/aplerr"
	"goapl/internal/array"
	"goapl/internal/cell"
)

// sysVar is one of spec.md §4.11's "stateful scalar or vector with
// validation" system variables: a name, a validator run on every Set, and
// whether the variable is read-only (⎕AI).
type sysVar struct {
	validate func(v *array.Value) *aplerr.Error
	readOnly bool
}

func scalarFloat(v *array.Value) (float64, *aplerr.Error) {
	if v.Rank() > 1 || v.ElementCount() != 1 {
		return 0, aplerr.New(aplerr.RANK, "system variable must be a scalar")
	}
	c := v.At(0)
	if !c.IsNumeric() {
		return 0, aplerr.New(aplerr.DOMAIN, "system variable must be numeric")
	}
	return c.Float(), nil
}

var sysVars = map[string]sysVar{
	"⎕IO": {validate: func(v *array.Value) *aplerr.Error {
		f, err := scalarFloat(v)
		if err != nil {
			return err
		}
		if f != 0 && f != 1 {
			return aplerr.New(aplerr.DOMAIN, "⎕IO must be 0 or 1")
		}
		return nil
	}},
	"⎕CT": {validate: func(v *array.Value) *aplerr.Error {
		f, err := scalarFloat(v)
		if err != nil {
			return err
		}
		if f < 0 {
			return aplerr.New(aplerr.DOMAIN, "⎕CT must be non-negative")
		}
		return nil
	}},
	"⎕PP": {validate: func(v *array.Value) *aplerr.Error {
		f, err := scalarFloat(v)
		if err != nil {
			return err
		}
		if f < 1 || f > 34 {
			return aplerr.New(aplerr.DOMAIN, "⎕PP must be in 1..34")
		}
		return nil
	}},
	"⎕PW": {validate: func(v *array.Value) *aplerr.Error {
		f, err := scalarFloat(v)
		if err != nil {
			return err
		}
		if f < 30 {
			return aplerr.New(aplerr.DOMAIN, "⎕PW must be at least 30")
		}
		return nil
	}},
	"⎕FC": {validate: func(v *array.Value) *aplerr.Error {
		if v.ElementCount() != 6 {
			return aplerr.New(aplerr.LENGTH, "⎕FC must be a 6-character vector")
		}
		for i := 0; i < 6; i++ {
			if !v.At(i).IsChar() {
				return aplerr.New(aplerr.DOMAIN, "⎕FC must be characters")
			}
		}
		return nil
	}},
	"⎕PS": {},
	"⎕RL": {validate: func(v *array.Value) *aplerr.Error {
		_, err := scalarFloat(v)
		return err
	}},
	"⎕TZ": {validate: func(v *array.Value) *aplerr.Error {
		_, err := scalarFloat(v)
		return err
	}},
	"⎕LX": {},
	"⎕AI": {readOnly: true},
}

func isSystemName(name string) bool {
	_, ok := sysVars[name]
	return ok
}

func defaultSystemValues() map[string]*array.Value {
	return map[string]*array.Value{
		"⎕IO": array.NewScalar(cell.NewInt(1)),
		"⎕CT": array.NewScalar(cell.NewFloat(1e-13)),
		"⎕PP": array.NewScalar(cell.NewInt(10)),
		"⎕PW": array.NewScalar(cell.NewInt(80)),
		"⎕FC": charVector(".,*0_-"),
		"⎕PS": array.NewScalar(cell.NewInt(0)),
		"⎕RL": array.NewScalar(cell.NewInt(16807)),
		"⎕TZ": array.NewScalar(cell.NewInt(0)),
		"⎕LX": array.NewEmptyCharVector(),
		"⎕AI": array.NewVector([]cell.Cell{cell.NewInt(0), cell.NewInt(0), cell.NewInt(0), cell.NewInt(0)}),
	}
}

func charVector(s string) *array.Value {
	rs := []rune(s)
	cells := make([]cell.Cell, len(rs))
	for i, r := range rs {
		cells[i] = cell.NewChar(r)
	}
	return array.NewVector(cells)
}
