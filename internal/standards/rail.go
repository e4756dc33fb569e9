package standards

// Rail design standards, metric. Rail alignments need much flatter
// curves than highway work and always transition through spirals.

// Rail120 returns the 120 km/h rail standard.
func Rail120() *Standard {
	return &Standard{
		StandardName:    "Rail 120",
		DesignSpeedKmh:  120,
		MinRadius:       1200,
		MinSpiralLength: 80,
		MaxDeflection:   30,
	}
}

// Rail160 returns the 160 km/h rail standard.
func Rail160() *Standard {
	return &Standard{
		StandardName:    "Rail 160",
		DesignSpeedKmh:  160,
		MinRadius:       2000,
		MinSpiralLength: 110,
		MaxDeflection:   25,
	}
}

// Rail200 returns the 200 km/h rail standard.
func Rail200() *Standard {
	return &Standard{
		StandardName:    "Rail 200",
		DesignSpeedKmh:  200,
		MinRadius:       3500,
		MinSpiralLength: 140,
		MaxDeflection:   20,
	}
}
