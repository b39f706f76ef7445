package s1_test

import (
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/geowatt/s1graph/ee"
	"github.com/geowatt/s1graph/s1"
)

func testCollection() ee.ImageCollection {
	opts := s1.DefaultCollectionOptions()
	opts.TargetDate = time.Date(2019, 8, 15, 0, 0, 0, 0, time.UTC)
	collection, err := s1.Collection(testRegion(), opts)
	Expect(err).NotTo(HaveOccurred())
	return collection
}

var _ = Describe("Mosaic", func() {
	It("composites on the quality band and adds the ratio", func() {
		mosaic := s1.Mosaic(testCollection(), testRegion())

		composites := invocations(mosaic, "ImageCollection.qualityMosaic")
		Expect(composites).To(HaveLen(1))
		Expect(composites[0].Arguments["qualityBand"].Constant.Value).To(Equal("quality"))

		renames := invocations(mosaic, "Image.rename")
		named := map[interface{}]bool{}
		for _, r := range renames {
			if arr := r.Arguments["names"].Array; arr != nil && len(arr.Values) == 1 {
				named[arr.Values[0].Constant.Value] = true
			}
		}
		Expect(named).To(HaveKey(interface{}("VV_VH")))
	})
})

var _ = Describe("Timescan", func() {
	It("combines the temporal statistics reducers", func() {
		timescan := s1.Timescan(testCollection(), testRegion())

		Expect(invocations(timescan, "Reducer.mean")).NotTo(BeEmpty())
		Expect(invocations(timescan, "Reducer.stdDev")).NotTo(BeEmpty())
		Expect(invocations(timescan, "Reducer.minMax")).NotTo(BeEmpty())
		Expect(invocations(timescan, "ImageCollection.reduce")).To(HaveLen(1))
	})

	It("derives the normalized difference of the coefficients of variation", func() {
		timescan := s1.Timescan(testCollection(), testRegion())

		diffs := invocations(timescan, "Image.normalizedDifference")
		found := false
		for _, d := range diffs {
			if arr := d.Arguments["bandNames"].Array; arr != nil && len(arr.Values) == 2 &&
				arr.Values[0].Constant.Value == "VV_CV" {
				found = true
			}
		}
		Expect(found).To(BeTrue())
	})
})

var _ = Describe("Harmonics", func() {
	It("fits a regression with two terms per harmonic", func() {
		harmonics, err := s1.Harmonics(testCollection(), "VV", 2)
		Expect(err).NotTo(HaveOccurred())

		regressions := invocations(harmonics, "Reducer.linearRegression")
		Expect(regressions).To(HaveLen(1))
		// constant, t, cos_1, cos_2, sin_1, sin_2
		Expect(regressions[0].Arguments["numX"].Constant.Value).To(Equal(6))
		Expect(regressions[0].Arguments["numY"].Constant.Value).To(Equal(1))
	})

	It("rejects a model without harmonics", func() {
		_, err := s1.Harmonics(testCollection(), "VV", 0)
		Expect(err).To(HaveOccurred())
	})
})
