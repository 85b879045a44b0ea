////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package measure

// measure_tags.go contains the string constants for our measure tags

import "strings"

// Constants for Tag strings used by Measure()
const (
	TagKernel = "Kernel"
	TagHook   = "Hook"
)

// WorkerTag builds the per-worker tag for base, e.g. "Kernel:gpu0.s1".
func WorkerTag(base, worker string) string {
	return base + ":" + worker
}

// SplitTag undoes WorkerTag. Tags without a worker return an empty worker.
func SplitTag(tag string) (base, worker string) {
	i := strings.IndexByte(tag, ':')
	if i < 0 {
		return tag, ""
	}
	return tag[:i], tag[i+1:]
}
