/*
Copyright 2026 The Flux authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package masktoken

import (
	"errors"
	"fmt"
	"regexp"
)

// MaskTokenFromString redacts all matches for the given token from the provided string,
// replacing them with "*****".
// The token is expected to be a valid UTF-8 string.
func MaskTokenFromString(log string, token string) (string, error) {
	if token == "" {
		return log, nil
	}

	re, err := regexp.Compile(fmt.Sprintf("%s*", regexp.QuoteMeta(token)))
	if err != nil {
		return "", err
	}

	return re.ReplaceAllString(log, "*****"), nil
}

// MaskError returns an error with the same message as err, minus any of the
// given secrets. The result does not wrap err, so the secrets can't leak
// through errors.Unwrap. A nil err is returned as is.
func MaskError(err error, secrets ...string) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	for _, s := range secrets {
		masked, maskErr := MaskTokenFromString(msg, s)
		if maskErr != nil {
			return errors.New("error message redacted: it contained a secret that could not be masked")
		}
		msg = masked
	}
	return errors.New(msg)
}
