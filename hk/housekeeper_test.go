/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package hk_test

import (
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/nasa-jpl/gogds/hk"
)

var _ = Describe("Housekeeper", func() {
	It("invokes a registered callback on its interval and reschedules it", func() {
		var calls int32
		hk.Reg("counter", func() time.Duration {
			atomic.AddInt32(&calls, 1)
			return 10 * time.Millisecond
		}, 10*time.Millisecond)

		Eventually(func() int32 { return atomic.LoadInt32(&calls) }, time.Second).Should(BeNumerically(">=", 2))
		hk.Unreg("counter")
	})

	It("stops calling a callback once it returns a non-positive duration", func() {
		var calls int32
		hk.Reg("oneshot", func() time.Duration {
			atomic.AddInt32(&calls, 1)
			return 0
		}, 5*time.Millisecond)

		Eventually(func() int32 { return atomic.LoadInt32(&calls) }, time.Second).Should(Equal(int32(1)))
		Consistently(func() int32 { return atomic.LoadInt32(&calls) }, 50*time.Millisecond).Should(Equal(int32(1)))
	})
})
