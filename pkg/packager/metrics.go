// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package packager

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	bundleBuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "editor_bundle_builds_total",
			Help: "Total number of bundle tasks by outcome",
		},
		[]string{"bundle", "status"},
	)

	bundleBuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "editor_bundle_build_duration_seconds",
			Help:    "Bundle task build time in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"bundle"},
	)

	bundleSizeBytes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "editor_bundle_size_bytes",
			Help: "Size of the last emitted bundle in bytes",
		},
		[]string{"bundle"},
	)

	bundleModules = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "editor_bundle_modules",
			Help: "Number of modules included in the last emitted bundle",
		},
		[]string{"bundle"},
	)
)

const (
	statusSuccess = "success"
	statusFailure = "failure"
)
