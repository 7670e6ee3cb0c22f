package content

import (
	ledger "github.com/pearltrails/engagement-ledger"
)

// DefaultLodges returns the built-in lodge records used to initialize an
// empty registry. The list is fixed; changing it only affects first runs.
func DefaultLodges() []ledger.Lodge {
	return []ledger.Lodge{
		{
			ID:          "gorilla-ridge-lodge",
			Name:        "Gorilla Ridge Lodge",
			Location:    "Buhoma, Bwindi Impenetrable Forest",
			Region:      "Bwindi",
			ImageURL:    "/images/lodges/gorilla-ridge.jpg",
			Description: "Hillside cottages overlooking the forest canopy, a short walk from the Buhoma trailhead.",
			Gallery: []ledger.GalleryImage{
				{URL: "/images/lodges/gorilla-ridge-1.jpg", Label: "Forest-view cottage"},
				{URL: "/images/lodges/gorilla-ridge-2.jpg", Label: "Dining terrace"},
			},
			Active:   true,
			Featured: true,
		},
		{
			ID:          "kazinga-channel-camp",
			Name:        "Kazinga Channel Camp",
			Location:    "Mweya Peninsula, Queen Elizabeth National Park",
			Region:      "Queen Elizabeth",
			ImageURL:    "/images/lodges/kazinga-channel.jpg",
			Description: "Tented camp above the Kazinga Channel with hippo and elephant sightings from the deck.",
			Gallery: []ledger.GalleryImage{
				{URL: "/images/lodges/kazinga-channel-1.jpg", Label: "Safari tent interior"},
				{URL: "/images/lodges/kazinga-channel-2.jpg", Label: "Channel sunset"},
			},
			Active:   true,
			Featured: true,
		},
		{
			ID:          "nile-breeze-safari-lodge",
			Name:        "Nile Breeze Safari Lodge",
			Location:    "Paraa, Murchison Falls National Park",
			Region:      "Murchison Falls",
			ImageURL:    "/images/lodges/nile-breeze.jpg",
			Description: "River-bank lodge at the Paraa crossing, the base for falls cruises and delta game drives.",
			Gallery: []ledger.GalleryImage{
				{URL: "/images/lodges/nile-breeze-1.jpg", Label: "Riverside suite"},
				{URL: "/images/lodges/nile-breeze-2.jpg", Label: "Pool over the Nile"},
			},
			Active:   true,
			Featured: false,
		},
		{
			ID:          "kibale-primate-camp",
			Name:        "Kibale Primate Camp",
			Location:    "Kanyanchu, Kibale Forest",
			Region:      "Kibale",
			ImageURL:    "/images/lodges/kibale-primate.jpg",
			Description: "Forest-edge bandas minutes from the chimpanzee tracking briefing point.",
			Gallery: []ledger.GalleryImage{
				{URL: "/images/lodges/kibale-primate-1.jpg", Label: "Banda at dusk"},
			},
			Active:   true,
			Featured: false,
		},
		{
			ID:          "mburo-acacia-sanctuary",
			Name:        "Mburo Acacia Sanctuary",
			Location:    "Lake Mburo National Park",
			Region:      "Lake Mburo",
			ImageURL:    "/images/lodges/mburo-acacia.jpg",
			Description: "Small sanctuary camp among the acacias, known for walking safaris and zebra herds.",
			Gallery: []ledger.GalleryImage{
				{URL: "/images/lodges/mburo-acacia-1.jpg", Label: "Acacia camp"},
				{URL: "/images/lodges/mburo-acacia-2.jpg", Label: "Walking safari"},
			},
			Active:   true,
			Featured: false,
		},
	}
}
