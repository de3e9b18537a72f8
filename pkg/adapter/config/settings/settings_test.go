// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settings_test

import (
	"testing"
	"time"

	"github.com/momeni/carmarket/pkg/adapter/config/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDurationText(t *testing.T) {
	for s, want := range map[string]string{
		"24h":     "24h",
		"90m":     "1h30m",
		"30s":     "30s",
		"2h0m30s": "2h0m30s",
		"0":       "0s",
	} {
		var d settings.Duration
		require.NoError(t, d.UnmarshalText([]byte(s)), s)
		assert.Equal(t, want, d.String(), s)
	}
	var d settings.Duration
	assert.Error(t, d.UnmarshalText([]byte("tomorrow")))
}

func TestVerifyRange(t *testing.T) {
	minb, maxb := settings.Duration(time.Hour), settings.Duration(48*time.Hour)

	v := new(settings.Duration)
	*v = settings.Duration(time.Minute)
	err := settings.VerifyRange(&v, &minb, &maxb)
	require.NotNil(t, err)
	assert.Equal(t, minb, *v, "clamped to the minimum")
	assert.Equal(t, settings.Duration(time.Minute), *err.Value)

	*v = settings.Duration(72 * time.Hour)
	require.NotNil(t, settings.VerifyRange(&v, &minb, &maxb))
	assert.Equal(t, maxb, *v)

	*v = settings.Duration(24 * time.Hour)
	assert.Nil(t, settings.VerifyRange(&v, &minb, &maxb))
	assert.Nil(t, settings.VerifyRange(&v, nil, nil))

	var unset *settings.Duration
	assert.Nil(t, settings.VerifyRange(&unset, &minb, &maxb))
	assert.NotNil(t, settings.VerifyRange(&unset, &maxb, &minb))

	var flag *bool
	settings.Nil2Zero(&flag)
	require.NotNil(t, flag)
	assert.False(t, *flag)
}
