// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package log is a thin wrapper around logrus so the rest of the module
// never imports a logging framework directly. Swap the framework here if
// the need ever arises.
package log

import "github.com/sirupsen/logrus"

// Level is the logrus level type, as accepted by SetLevel.
type Level = logrus.Level

var (
	// V quickly checks if the logging verbosity meets a threshold.
	V = func(level int) bool {
		lvl := logrus.GetLevel()
		switch level {
		case 0:
			return lvl >= logrus.InfoLevel
		case 1:
			return lvl >= logrus.DebugLevel
		default:
			return lvl >= logrus.TraceLevel
		}
	}

	// SetLevel sets the global logging verbosity.
	SetLevel = logrus.SetLevel

	// Debug formats arguments like fmt.Print, at debug verbosity.
	Debug = logrus.Debug
	// Debugf formats arguments like fmt.Printf, at debug verbosity.
	Debugf = logrus.Debugf

	// Info formats arguments like fmt.Print.
	Info = logrus.Info
	// Infof formats arguments like fmt.Printf.
	Infof = logrus.Infof

	// Warning formats arguments like fmt.Print.
	Warning = logrus.Warning
	// Warningf formats arguments like fmt.Printf.
	Warningf = logrus.Warningf

	// Error formats arguments like fmt.Print.
	Error = logrus.Error
	// Errorf formats arguments like fmt.Printf.
	Errorf = logrus.Errorf

	// WithField attaches structured context to a log line, e.g.
	// log.WithField("arity", k).Info("validating")
	WithField = logrus.WithField
)
