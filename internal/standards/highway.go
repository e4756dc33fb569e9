package standards

// Highway design standards, metric, assuming 6% superelevation.
// Minimum radii follow the usual design tables for open highway.

// Highway40 returns the 40 km/h highway standard.
func Highway40() *Standard {
	return &Standard{
		StandardName:    "Highway 40",
		DesignSpeedKmh:  40,
		MinRadius:       60,
		MinSpiralLength: 30,
		MaxDeflection:   90,
	}
}

// Highway60 returns the 60 km/h highway standard.
func Highway60() *Standard {
	return &Standard{
		StandardName:    "Highway 60",
		DesignSpeedKmh:  60,
		MinRadius:       135,
		MinSpiralLength: 40,
		MaxDeflection:   75,
	}
}

// Highway80 returns the 80 km/h highway standard.
func Highway80() *Standard {
	return &Standard{
		StandardName:    "Highway 80",
		DesignSpeedKmh:  80,
		MinRadius:       280,
		MinSpiralLength: 50,
		MaxDeflection:   60,
	}
}

// Highway100 returns the 100 km/h highway standard.
func Highway100() *Standard {
	return &Standard{
		StandardName:    "Highway 100",
		DesignSpeedKmh:  100,
		MinRadius:       490,
		MinSpiralLength: 60,
		MaxDeflection:   45,
	}
}
