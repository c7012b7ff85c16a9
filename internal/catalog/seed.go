package catalog

// seedTests is the bundled catalog of common orthopedic special tests.
// Sensitivity/specificity figures are indicative literature values; -1
// marks figures the literature does not agree on.
var seedTests = []Test{
	// Cervical spine
	{
		ID:          "test-spurling",
		Name:        "Test de Spurling",
		Description: "Compression axiale en extension et inclinaison homolatérale; reproduit la douleur radiculaire cervicale.",
		Sensitivity: 0.50,
		Specificity: 0.93,
		VideoURL:    "https://videos.orthodx.example/spurling",
	},
	{
		ID:          "test-distraction-cervicale",
		Name:        "Test de distraction cervicale",
		Description: "Traction axiale douce; le soulagement des symptômes radiculaires oriente vers une compression foraminale.",
		Sensitivity: 0.44,
		Specificity: 0.90,
		VideoURL:    "https://videos.orthodx.example/cervical-distraction",
	},
	// Shoulder
	{
		ID:          "test-neer",
		Name:        "Test de Neer",
		Description: "Élévation passive du bras en rotation interne; douleur en fin de course évoquant un conflit sous-acromial.",
		Sensitivity: 0.72,
		Specificity: 0.60,
		VideoURL:    "https://videos.orthodx.example/neer",
	},
	{
		ID:          "test-hawkins",
		Name:        "Test de Hawkins-Kennedy",
		Description: "Flexion à 90° puis rotation interne forcée; recherche un conflit antéro-supérieur.",
		Sensitivity: 0.79,
		Specificity: 0.59,
		VideoURL:    "https://videos.orthodx.example/hawkins",
	},
	{
		ID:          "test-jobe",
		Name:        "Test de Jobe",
		Description: "Abduction contrariée pouce vers le bas; faiblesse ou douleur évoquant une atteinte du supra-épineux.",
		Sensitivity: 0.74,
		Specificity: 0.58,
		VideoURL:    "https://videos.orthodx.example/jobe",
	},
	// Knee
	{
		ID:          "test-lachman",
		Name:        "Test de Lachman",
		Description: "Tiroir antérieur à 20-30° de flexion; arrêt mou évoquant une rupture du LCA.",
		Sensitivity: 0.85,
		Specificity: 0.94,
		VideoURL:    "https://videos.orthodx.example/lachman",
	},
	{
		ID:          "test-mcmurray",
		Name:        "Test de McMurray",
		Description: "Flexion-rotation du genou; clic ou douleur sur l'interligne évoquant une lésion méniscale.",
		Sensitivity: 0.61,
		Specificity: 0.84,
		VideoURL:    "https://videos.orthodx.example/mcmurray",
	},
	{
		ID:          "test-thessaly",
		Name:        "Test de Thessaly",
		Description: "Rotation en appui monopodal à 20° de flexion; douleur d'interligne évoquant une lésion méniscale.",
		Sensitivity: 0.75,
		Specificity: 0.87,
		VideoURL:    "https://videos.orthodx.example/thessaly",
	},
	// Lumbar spine / hip
	{
		ID:          "test-lasegue",
		Name:        "Signe de Lasègue",
		Description: "Élévation jambe tendue; douleur radiculaire sous 60° évoquant une sciatique par hernie discale.",
		Sensitivity: 0.91,
		Specificity: 0.26,
		VideoURL:    "https://videos.orthodx.example/lasegue",
	},
	{
		ID:          "test-faber",
		Name:        "Test de FABER (Patrick)",
		Description: "Flexion-abduction-rotation externe de hanche; localise la douleur entre hanche et sacro-iliaque.",
		Sensitivity: -1,
		Specificity: -1,
		VideoURL:    "https://videos.orthodx.example/faber",
	},
}

// Seed returns the bundled test catalog.
func Seed() *Static {
	return NewStatic(seedTests)
}

// SeedTests returns a copy of the bundled records, for loading into a
// store-backed catalog.
func SeedTests() []Test {
	out := make([]Test, len(seedTests))
	copy(out, seedTests)
	return out
}
