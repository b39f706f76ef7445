package s1_test

import (
	"time"

	"github.com/go-spatial/geom"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/geowatt/s1graph/common"
	"github.com/geowatt/s1graph/ee"
	"github.com/geowatt/s1graph/s1"
)

func testRegion() ee.Geometry {
	region, err := ee.NewGeometry(geom.Polygon{{{4.3, 45.1}, {4.5, 45.1}, {4.5, 45.3}, {4.3, 45.3}, {4.3, 45.1}}})
	Expect(err).NotTo(HaveOccurred())
	return region
}

// invocations returns every function invocation of the serialized graph with
// the given name
func invocations(o ee.Object, name string) []*ee.FunctionInvocation {
	expr, err := ee.Serialize(o)
	Expect(err).NotTo(HaveOccurred())
	var found []*ee.FunctionInvocation
	for _, v := range expr.Values {
		if v.FunctionInvocation != nil && v.FunctionInvocation.FunctionName == name {
			found = append(found, v.FunctionInvocation)
		}
	}
	return found
}

var _ = Describe("StepNames", func() {
	var opts s1.CollectionOptions

	BeforeEach(func() {
		opts = s1.DefaultCollectionOptions()
	})

	Context("with the default options", func() {
		It("calibrates, adds the ratio bands, converts to dB and masks borders", func() {
			Expect(s1.StepNames(opts)).To(Equal([]string{"gamma0", "ratio", "ndRatio", "toDb", "maskBorders"}))
		})
	})

	Context("with a speckle filter", func() {
		It("runs boxcar before calibration", func() {
			opts.SpeckleFilter = common.SpeckleBoxcar
			Expect(s1.StepNames(opts)).To(Equal([]string{"boxcar", "gamma0", "ratio", "ndRatio", "toDb", "maskBorders"}))
		})
		It("runs refined Lee before calibration", func() {
			opts.SpeckleFilter = common.SpeckleRefinedLee
			Expect(s1.StepNames(opts)).To(Equal([]string{"refinedLee", "gamma0", "ratio", "ndRatio", "toDb", "maskBorders"}))
		})
		It("runs the multitemporal filter before calibration", func() {
			opts.SpeckleFilter = common.SpeckleQuegan
			Expect(s1.StepNames(opts)).To(Equal([]string{"quegan", "gamma0", "ratio", "ndRatio", "toDb", "maskBorders"}))
		})
		It("runs the segmentation after the ratio bands it depends on", func() {
			opts.SpeckleFilter = common.SpeckleSNIC
			Expect(s1.StepNames(opts)).To(Equal([]string{"gamma0", "ratio", "ndRatio", "snic", "toDb", "maskBorders"}))
		})
	})

	Context("with terrain correction", func() {
		It("flattens and masks layover and shadow", func() {
			opts.RadiometricCorrection = common.RadiometricTerrain
			Expect(s1.StepNames(opts)).To(Equal([]string{"terrainFlattening", "maskOverlay", "ratio", "ndRatio", "toDb", "maskBorders"}))
		})
	})

	Context("without radiometric correction", func() {
		It("skips the calibration", func() {
			opts.RadiometricCorrection = common.RadiometricNone
			Expect(s1.StepNames(opts)).To(Equal([]string{"ratio", "ndRatio", "toDb", "maskBorders"}))
		})
	})

	Context("with a target date", func() {
		It("adds the date bands after calibration", func() {
			opts.TargetDate = time.Date(2019, 8, 15, 0, 0, 0, 0, time.UTC)
			Expect(s1.StepNames(opts)).To(Equal([]string{"gamma0", "dateBands", "ratio", "ndRatio", "toDb", "maskBorders"}))
		})
	})

	Context("in power scale without the ratio bands", func() {
		It("only masks the borders", func() {
			opts.AddRatio = false
			opts.AddNDRatio = false
			opts.DB = false
			opts.RadiometricCorrection = common.RadiometricNone
			Expect(s1.StepNames(opts)).To(Equal([]string{"maskBorders"}))
		})
	})
})

var _ = Describe("Collection", func() {
	var opts s1.CollectionOptions

	BeforeEach(func() {
		opts = s1.DefaultCollectionOptions()
	})

	Context("with explicit dates", func() {
		It("filters the date range as given", func() {
			opts.StartDate = time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
			opts.EndDate = time.Date(2019, 7, 1, 0, 0, 0, 0, time.UTC)
			collection, err := s1.Collection(testRegion(), opts)
			Expect(err).NotTo(HaveOccurred())

			ranges := invocations(collection, "DateRange")
			Expect(ranges).To(HaveLen(1))
			Expect(ranges[0].Arguments["start"].Constant.Value).To(Equal("2019-01-01T00:00:00Z"))
			Expect(ranges[0].Arguments["end"].Constant.Value).To(Equal("2019-07-01T00:00:00Z"))
		})
	})

	Context("with only a target date", func() {
		It("defaults the range to half a year on both sides", func() {
			opts.TargetDate = time.Date(2019, 8, 15, 0, 0, 0, 0, time.UTC)
			collection, err := s1.Collection(testRegion(), opts)
			Expect(err).NotTo(HaveOccurred())

			ranges := invocations(collection, "DateRange")
			Expect(ranges).To(HaveLen(1))
			Expect(ranges[0].Arguments["start"].Constant.Value).To(Equal("2019-02-13T00:00:00Z"))
			Expect(ranges[0].Arguments["end"].Constant.Value).To(Equal("2020-02-14T00:00:00Z"))
		})

		It("keeps an explicit start date", func() {
			opts.TargetDate = time.Date(2019, 8, 15, 0, 0, 0, 0, time.UTC)
			opts.StartDate = time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC)
			collection, err := s1.Collection(testRegion(), opts)
			Expect(err).NotTo(HaveOccurred())

			ranges := invocations(collection, "DateRange")
			Expect(ranges).To(HaveLen(1))
			Expect(ranges[0].Arguments["start"].Constant.Value).To(Equal("2019-06-01T00:00:00Z"))
			Expect(ranges[0].Arguments["end"].Constant.Value).To(Equal("2020-02-14T00:00:00Z"))
		})
	})

	Context("with an invalid configuration", func() {
		It("requires dates", func() {
			_, err := s1.Collection(testRegion(), opts)
			Expect(err).To(MatchError(ContainSubstring("missing start or end date")))
		})
		It("requires the end after the start", func() {
			opts.StartDate = time.Date(2019, 7, 1, 0, 0, 0, 0, time.UTC)
			opts.EndDate = time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
			_, err := s1.Collection(testRegion(), opts)
			Expect(err).To(MatchError(ContainSubstring("not after")))
		})
		It("requires orbits", func() {
			opts.StartDate = time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
			opts.EndDate = time.Date(2019, 7, 1, 0, 0, 0, 0, time.UTC)
			opts.Orbits = nil
			_, err := s1.Collection(testRegion(), opts)
			Expect(err).To(MatchError(ContainSubstring("missing orbits")))
		})
		It("requires the ratio bands for the segmentation filter", func() {
			opts.StartDate = time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
			opts.EndDate = time.Date(2019, 7, 1, 0, 0, 0, 0, time.UTC)
			opts.SpeckleFilter = common.SpeckleSNIC
			opts.AddRatio = false
			_, err := s1.Collection(testRegion(), opts)
			Expect(err).To(MatchError(ContainSubstring("ratio bands")))
		})
	})

	Context("with a heavy preprocessing configuration", func() {
		BeforeEach(func() {
			opts.StartDate = time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
			opts.EndDate = time.Date(2019, 7, 1, 0, 0, 0, 0, time.UTC)
		})

		It("serializes the multitemporal filter", func() {
			opts.SpeckleFilter = common.SpeckleQuegan
			collection, err := s1.Collection(testRegion(), opts)
			Expect(err).NotTo(HaveOccurred())

			// the filter loads the catalog a second time for the neighbors
			// and averages their ratio to the spatial mean
			Expect(invocations(collection, "ImageCollection.load")).To(HaveLen(2))
			Expect(invocations(collection, "reduce.sum")).NotTo(BeEmpty())
			Expect(invocations(collection, "reduce.count")).NotTo(BeEmpty())
			Expect(invocations(collection, "List.map")).NotTo(BeEmpty())
		})

		It("serializes the refined Lee filter", func() {
			opts.SpeckleFilter = common.SpeckleRefinedLee
			collection, err := s1.Collection(testRegion(), opts)
			Expect(err).NotTo(HaveOccurred())

			Expect(invocations(collection, "Kernel.fixed")).NotTo(BeEmpty())
			Expect(invocations(collection, "Image.neighborhoodToBands")).NotTo(BeEmpty())
			Expect(invocations(collection, "Image.arraySort")).NotTo(BeEmpty())
		})

		It("serializes the segmentation filter", func() {
			opts.SpeckleFilter = common.SpeckleSNIC
			collection, err := s1.Collection(testRegion(), opts)
			Expect(err).NotTo(HaveOccurred())

			snic := invocations(collection, "Algorithms.Image.Segmentation.SNIC")
			Expect(snic).To(HaveLen(1))
			Expect(snic[0].Arguments["size"].Constant.Value).To(Equal(8))
		})

		It("serializes the terrain correction", func() {
			opts.RadiometricCorrection = common.RadiometricTerrain
			collection, err := s1.Collection(testRegion(), opts)
			Expect(err).NotTo(HaveOccurred())

			Expect(invocations(collection, "Terrain.slope")).NotTo(BeEmpty())
			Expect(invocations(collection, "Terrain.aspect")).NotTo(BeEmpty())
			Expect(invocations(collection, "Image.fastDistanceTransform")).NotTo(BeEmpty())
		})
	})

	Context("with the default options", func() {
		It("loads the ground range detected imagery with both orbits", func() {
			opts.StartDate = time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
			opts.EndDate = time.Date(2019, 7, 1, 0, 0, 0, 0, time.UTC)
			collection, err := s1.Collection(testRegion(), opts)
			Expect(err).NotTo(HaveOccurred())

			loads := invocations(collection, "ImageCollection.load")
			Expect(loads).To(HaveLen(1))
			Expect(loads[0].Arguments["id"].Constant.Value).To(Equal("COPERNICUS/S1_GRD_FLOAT"))

			polarisations := invocations(collection, "Filter.listContains")
			Expect(polarisations).To(HaveLen(2))

			orbits := invocations(collection, "Filter.or")
			Expect(orbits).To(HaveLen(1))
		})

		It("masks outliers only when requested", func() {
			opts.StartDate = time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
			opts.EndDate = time.Date(2019, 7, 1, 0, 0, 0, 0, time.UTC)
			collection, err := s1.Collection(testRegion(), opts)
			Expect(err).NotTo(HaveOccurred())
			Expect(invocations(collection, "Reducer.median")).To(BeEmpty())

			opts.OutlierRemoval = common.OutlierAggressive
			collection, err = s1.Collection(testRegion(), opts)
			Expect(err).NotTo(HaveOccurred())
			Expect(invocations(collection, "Reducer.median")).To(HaveLen(1))

			// the aggressive threshold must appear in the graph
			stdDevs := false
			constants := invocations(collection, "Image.constant")
			for _, c := range constants {
				if c.Arguments["value"].Constant != nil && c.Arguments["value"].Constant.Value == 2.6 {
					stdDevs = true
				}
			}
			Expect(stdDevs).To(BeTrue())
		})
	})
})
