package cmdline

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/k8snetworkplumbingwg/altqctl/pkg/tc/types"
)

// cQDiscToQDisc converts a tc json qdisc to HTBQDisc
func cQDiscToQDisc(q *cQDisc) (*types.HTBQDisc, error) {
	handle, err := parseMajorMinor(q.Handle)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to parse qdisc Handle")
	}
	parent := types.HandleRoot
	if !q.Root {
		parent, err = parseMajorMinor(q.Parent)
		if err != nil {
			return nil, errors.Wrap(err, "Failed to parse qdisc Parent")
		}
	}
	qb := types.NewHTBQDiscBuilder().WithParent(parent).WithHandle(handle)
	if len(q.Options) > 0 {
		var opts cHTBOptions
		if err := json.Unmarshal(q.Options, &opts); err != nil {
			return nil, errors.Wrap(err, "Failed to parse htb qdisc options")
		}
		qb.WithDefaultClass(uint32(opts.Default))
	}
	return qb.Build(), nil
}

// cClassToClass converts a tc json class to HTBClass. top level classes are reported with a root
// parent, those are normalized to the handle of the qdisc they belong to.
func cClassToClass(c *cClass) (*types.HTBClass, error) {
	handle, err := parseMajorMinor(c.Handle)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to parse class Handle")
	}
	var parent uint32
	if c.Root {
		major, _ := types.MajorMinor(handle)
		parent = types.MakeHandle(major, 0)
	} else {
		parent, err = parseMajorMinor(c.Parent)
		if err != nil {
			return nil, errors.Wrap(err, "Failed to parse class Parent")
		}
	}
	return types.NewHTBClassBuilder().
		WithParent(parent).
		WithHandle(handle).
		WithRate(c.Rate).
		WithCeil(c.Ceil).
		WithPrio(c.Prio).
		Build(), nil
}

// parseMajorMinor parses TC string Handle and Parent. for a given format the following output is expected as depicted
// below.
//
//	"abcd" -> int32(0xabcd)
//	"abcdef01" -> int32(0xabcdef01)
//	"abcd:" -> int32(0xabcd0000)
//	"abcd:ef01" -> int32(0xabcdef01)
func parseMajorMinor(mm string) (uint32, error) {
	parsedMm := strings.Split(mm, ":")

	switch len(parsedMm) {
	case 1:
		p, err := strconv.ParseUint(parsedMm[0], 16, 32)
		return uint32(p), err
	case 2:
		major, err := strconv.ParseUint(parsedMm[0], 16, 16)
		if err != nil {
			return 0, err
		}
		var minor uint64
		if len(parsedMm[1]) > 0 {
			// we have minor
			minor, err = strconv.ParseUint(parsedMm[1], 16, 16)
			if err != nil {
				return 0, err
			}
		}
		return types.MakeHandle(uint16(major), uint16(minor)), nil
	default:
		return 0, fmt.Errorf("failed to parse MajorMinor string: %s", mm)
	}
}
