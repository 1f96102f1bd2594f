/*
 * Copyright 2025 EdgeVision Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package detshm

import "github.com/prometheus/client_golang/prometheus"

var (
	publishTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "detshm_publish_total",
		Help: "Total number of batches published to shared memory.",
	})
	publishTruncatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "detshm_publish_truncated_total",
		Help: "Total number of publishes that dropped detections beyond capacity.",
	})
	consumeTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "detshm_consume_total",
		Help: "Total number of batches consumed from shared memory.",
	})
	consumeCorruptTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "detshm_consume_corrupt_total",
		Help: "Total number of reads rejected for an out-of-range count.",
	})
	consumeTornRetryTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "detshm_consume_torn_retry_total",
		Help: "Total number of snapshot retries after the segment changed mid-copy.",
	})
)

func init() {
	prometheus.MustRegister(
		publishTotal,
		publishTruncatedTotal,
		consumeTotal,
		consumeCorruptTotal,
		consumeTornRetryTotal,
	)
}
