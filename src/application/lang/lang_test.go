package lang_test

import (
	"subtitle-workers/src/application/lang"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("NormalizeForGoogle", func() {
	It("maps full language names to codes", func() {
		Expect(lang.NormalizeForGoogle("english")).To(Equal("en"))
		Expect(lang.NormalizeForGoogle("japanese")).To(Equal("ja"))
	})

	It("regionalizes Chinese", func() {
		Expect(lang.NormalizeForGoogle("zh")).To(Equal("zh-cn"))
		Expect(lang.NormalizeForGoogle("chinese")).To(Equal("zh-cn"))
		Expect(lang.NormalizeForGoogle("taiwanese")).To(Equal("zh-tw"))
	})

	It("uses the legacy Hebrew code", func() {
		Expect(lang.NormalizeForGoogle("hebrew")).To(Equal("iw"))
	})

	It("is case and whitespace insensitive", func() {
		Expect(lang.NormalizeForGoogle(" English ")).To(Equal("en"))
	})

	It("passes unknown inputs through lowercased", func() {
		Expect(lang.NormalizeForGoogle("Klingon")).To(Equal("klingon"))
	})
})

var _ = Describe("NormalizeForAPI", func() {
	It("maps full language names to codes", func() {
		Expect(lang.NormalizeForAPI("french")).To(Equal("fr"))
	})

	It("strips the Chinese region", func() {
		Expect(lang.NormalizeForAPI("zh-cn")).To(Equal("zh"))
		Expect(lang.NormalizeForAPI("chinese")).To(Equal("zh"))
	})

	It("uses the modern Hebrew code", func() {
		Expect(lang.NormalizeForAPI("hebrew")).To(Equal("he"))
	})

	It("passes unknown inputs through lowercased", func() {
		Expect(lang.NormalizeForAPI("Klingon")).To(Equal("klingon"))
	})
})
