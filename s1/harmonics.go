package s1

import (
	"fmt"
	"math"

	"github.com/geowatt/s1graph/ee"
)

// Harmonics fits a harmonic time series model to the given band of the
// collection and returns the constant and trend coefficients of the
// regression plus its root mean square error (bands constant, t and RMSE).
func Harmonics(collection ee.ImageCollection, band string, harmonics int) (ee.Image, error) {
	if harmonics < 1 {
		return ee.Image{}, fmt.Errorf("Harmonics: at least one harmonic is required")
	}

	cosNames := make([]string, harmonics)
	sinNames := make([]string, harmonics)
	for i := 0; i < harmonics; i++ {
		cosNames[i] = fmt.Sprintf("cos_%d", i+1)
		sinNames[i] = fmt.Sprintf("sin_%d", i+1)
	}
	independents := append(append([]string{"constant", "t"}, cosNames...), sinNames...)

	// time in radians of fractional years since the epoch
	addTime := func(image ee.Image) ee.Image {
		date := ee.NewDate(image.GetNumber("system:time_start"))
		years := date.Difference(ee.NewDate("1970-01-01"), "year")
		timeRadians := ee.ConstantImage(years.Multiply(2 * math.Pi))
		return image.AddBands(timeRadians.Rename("t").Float(), false)
	}

	addHarmonics := func(image ee.Image) ee.Image {
		time := image.Select("t")
		for i := 0; i < harmonics; i++ {
			frequency := ee.ConstantImage(i + 1)
			image = image.
				AddBands(time.Multiply(frequency).Cos().Rename(cosNames[i]), false).
				AddBands(time.Multiply(frequency).Sin().Rename(sinNames[i]), false)
		}
		return image
	}

	harmonicImages := collection.
		Map(func(i ee.Image) ee.Image { return i.AddBands(ee.ConstantImage(1), false) }).
		Map(addTime).
		Map(addHarmonics)

	// the regression reduces to an array image of coefficients and residuals
	trend := harmonicImages.
		Select(append(independents, band)...).
		Reduce(ee.LinearRegressionReducer(len(independents), 1))

	coefficients := trend.Select("coefficients").
		ArrayProject([]int{0}).
		ArrayFlatten(independents)
	rmse := trend.Select("residuals").ArrayGet(0).Rename("RMSE")

	return coefficients.Select("constant", "t").AddBands(rmse, false), nil
}
