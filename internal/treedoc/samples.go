package treedoc

import (
	"fmt"

	"github.com/orthodx/arbor/internal/decisiontree"
)

// sampleDocs are the bundled starter trees installed by `arbor seed`. They
// reference tests from the bundled catalog.
var sampleDocs = []string{cervicalSample, kneeSample}

// Samples decodes the bundled trees.
func Samples() ([]*decisiontree.Tree, error) {
	trees := make([]*decisiontree.Tree, 0, len(sampleDocs))
	for i, doc := range sampleDocs {
		t, err := Decode([]byte(doc))
		if err != nil {
			return nil, fmt.Errorf("bundled tree %d: %w", i, err)
		}
		trees = append(trees, t)
	}
	return trees, nil
}

const cervicalSample = `{
  "version": 1,
  "tree": {
    "id": "sample-cervical",
    "name": "Cervicalgie",
    "description": "Orientation devant une douleur cervicale avec ou sans irradiation.",
    "category": "rachis",
    "isFree": true
  },
  "nodes": [
    {
      "id": "cx-root",
      "nodeType": "question",
      "content": "La douleur irradie-t-elle dans le membre supérieur ?",
      "answers": [
        {"id": "cx-a-irr", "label": "Oui, irradiation"},
        {"id": "cx-a-loc", "label": "Non, douleur localisée"}
      ]
    },
    {
      "id": "cx-spurling",
      "parentId": "cx-root",
      "parentAnswerId": "cx-a-irr",
      "nodeType": "test",
      "content": "Test de Spurling",
      "testId": "test-spurling",
      "orderIndex": 0,
      "answers": [
        {"id": "cx-a-pos", "label": "Positif"},
        {"id": "cx-a-neg", "label": "Négatif"}
      ]
    },
    {
      "id": "cx-radic",
      "parentId": "cx-spurling",
      "parentAnswerId": "cx-a-pos",
      "nodeType": "diagnosis",
      "content": "{\"label\":\"Radiculopathie cervicale probable\",\"kind\":\"caution\",\"urgency\":\"urgent\",\"recommendations\":\"IRM cervicale, surveillance neurologique\",\"referral\":\"Neurologie\"}",
      "orderIndex": 0,
      "answers": []
    },
    {
      "id": "cx-distraction",
      "parentId": "cx-spurling",
      "parentAnswerId": "cx-a-neg",
      "nodeType": "test",
      "content": "Test de distraction cervicale",
      "testId": "test-distraction-cervicale",
      "orderIndex": 1,
      "answers": [
        {"id": "cx-a-soulage", "label": "Soulagement"},
        {"id": "cx-a-inchange", "label": "Inchangé"}
      ]
    },
    {
      "id": "cx-foraminal",
      "parentId": "cx-distraction",
      "parentAnswerId": "cx-a-soulage",
      "nodeType": "diagnosis",
      "content": "{\"label\":\"Compression foraminale\",\"kind\":\"caution\",\"urgency\":\"routine\",\"recommendations\":\"Traction douce, réévaluation à 2 semaines\"}",
      "orderIndex": 0,
      "answers": []
    },
    {
      "id": "cx-mecanique",
      "parentId": "cx-distraction",
      "parentAnswerId": "cx-a-inchange",
      "nodeType": "diagnosis",
      "content": "{\"label\":\"Cervicalgie mécanique\",\"kind\":\"normal\",\"urgency\":\"routine\",\"recommendations\":\"Mobilisation progressive, antalgie simple\"}",
      "orderIndex": 1,
      "answers": []
    },
    {
      "id": "cx-redflag",
      "parentId": "cx-root",
      "parentAnswerId": "cx-a-loc",
      "nodeType": "question",
      "content": "Fièvre, perte de poids ou traumatisme récent ?",
      "orderIndex": 1,
      "answers": [
        {"id": "cx-a-rf-oui", "label": "Oui"},
        {"id": "cx-a-rf-non", "label": "Non"}
      ]
    },
    {
      "id": "cx-urgence",
      "parentId": "cx-redflag",
      "parentAnswerId": "cx-a-rf-oui",
      "nodeType": "diagnosis",
      "content": "{\"label\":\"Drapeau rouge cervical\",\"kind\":\"red-flag\",\"urgency\":\"immediate\",\"recommendations\":\"Bilan en urgence, imagerie\",\"referral\":\"Urgences\"}",
      "orderIndex": 0,
      "answers": []
    },
    {
      "id": "cx-simple",
      "parentId": "cx-redflag",
      "parentAnswerId": "cx-a-rf-non",
      "nodeType": "diagnosis",
      "content": "{\"label\":\"Cervicalgie commune\",\"kind\":\"normal\",\"urgency\":\"routine\",\"recommendations\":\"Réassurance, maintien de l'activité\"}",
      "orderIndex": 1,
      "answers": []
    }
  ]
}`

const kneeSample = `{
  "version": 1,
  "tree": {
    "id": "sample-genou",
    "name": "Genou traumatique",
    "description": "Orientation après traumatisme du genou en torsion.",
    "category": "membre-inferieur",
    "isFree": false
  },
  "nodes": [
    {
      "id": "gn-root",
      "nodeType": "question",
      "content": "Sensation de craquement avec gonflement rapide (< 2 h) ?",
      "answers": [
        {"id": "gn-a-oui", "label": "Oui"},
        {"id": "gn-a-non", "label": "Non"}
      ]
    },
    {
      "id": "gn-lachman",
      "parentId": "gn-root",
      "parentAnswerId": "gn-a-oui",
      "nodeType": "test",
      "content": "Test de Lachman",
      "testId": "test-lachman",
      "orderIndex": 0,
      "answers": [
        {"id": "gn-a-lach-pos", "label": "Arrêt mou"},
        {"id": "gn-a-lach-neg", "label": "Arrêt dur"}
      ]
    },
    {
      "id": "gn-lca",
      "parentId": "gn-lachman",
      "parentAnswerId": "gn-a-lach-pos",
      "nodeType": "diagnosis",
      "content": "{\"label\":\"Rupture du LCA probable\",\"kind\":\"caution\",\"urgency\":\"urgent\",\"recommendations\":\"IRM, avis chirurgical\",\"referral\":\"Chirurgie orthopédique\"}",
      "orderIndex": 0,
      "answers": []
    },
    {
      "id": "gn-mcmurray",
      "parentId": "gn-lachman",
      "parentAnswerId": "gn-a-lach-neg",
      "nodeType": "test",
      "content": "Test de McMurray",
      "testId": "test-mcmurray",
      "orderIndex": 1,
      "answers": [
        {"id": "gn-a-mc-pos", "label": "Clic douloureux"},
        {"id": "gn-a-mc-neg", "label": "Négatif"}
      ]
    },
    {
      "id": "gn-menisque",
      "parentId": "gn-mcmurray",
      "parentAnswerId": "gn-a-mc-pos",
      "nodeType": "diagnosis",
      "content": "{\"label\":\"Lésion méniscale probable\",\"kind\":\"caution\",\"urgency\":\"routine\",\"recommendations\":\"IRM en semi-urgence, décharge partielle\"}",
      "orderIndex": 0,
      "answers": []
    },
    {
      "id": "gn-entorse",
      "parentId": "gn-mcmurray",
      "parentAnswerId": "gn-a-mc-neg",
      "nodeType": "diagnosis",
      "content": "{\"label\":\"Entorse bénigne\",\"kind\":\"normal\",\"urgency\":\"routine\",\"recommendations\":\"Protocole GREC, réévaluation à 10 jours\"}",
      "orderIndex": 1,
      "answers": []
    },
    {
      "id": "gn-simple",
      "parentId": "gn-root",
      "parentAnswerId": "gn-a-non",
      "nodeType": "diagnosis",
      "content": "{\"label\":\"Contusion simple\",\"kind\":\"normal\",\"urgency\":\"routine\",\"recommendations\":\"Glace, antalgie, reprise progressive\"}",
      "orderIndex": 1,
      "answers": []
    }
  ]
}`
