////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

// Version information printed by the version command. Update on release.

package cmd

const GITVERSION = "unreleased"
const SEMVER = "0.1.0"
const DEPENDENCIES = `module gitlab.com/elixxir/prism

go 1.19

require (
	github.com/cznic/mathutil v0.0.0-20181122101859-297441e03548
	github.com/jinzhu/copier v0.0.0-20201025035756-632e723a6687
	github.com/mitchellh/go-homedir v1.1.0
	github.com/pkg/errors v0.9.1
	github.com/prometheus/client_golang v1.14.0
	github.com/spf13/cobra v1.1.1
	github.com/spf13/jwalterweatherman v1.1.0
	github.com/spf13/viper v1.7.1
	go.uber.org/atomic v1.10.0
	golang.org/x/sync v0.1.0
	gopkg.in/yaml.v2 v2.4.0
	gorm.io/driver/postgres v1.1.2
	gorm.io/gorm v1.21.16
)
`
