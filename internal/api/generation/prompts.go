package generation

import (
	"fmt"
	"strings"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

func getDestinationContentPrompt(city, country string, days int, prefs *types.TripPreferences, budget float64) string {
	var interests, travelStyle string
	var familyFriendly, accessibility bool
	if prefs != nil {
		interests = strings.Join(prefs.Interests, ", ")
		travelStyle = prefs.TravelStyle
		familyFriendly = prefs.FamilyFriendly
		accessibility = prefs.Accessibility
	}

	var context strings.Builder
	if interests != "" {
		fmt.Fprintf(&context, "The traveler is particularly interested in: %s.\n", interests)
	}
	if travelStyle != "" {
		fmt.Fprintf(&context, "This is a %s trip.\n", strings.ToLower(travelStyle))
	}
	if budget > 0 {
		fmt.Fprintf(&context, "The budget for this portion of the trip is $%.0f.\n", budget)
	}
	if familyFriendly {
		context.WriteString("This is a family-friendly trip with children. Please suggest activities suitable for families.\n")
	}
	if accessibility {
		context.WriteString("Please ensure all suggested activities and locations are wheelchair accessible.\n")
	}

	interestsOrDefault := interests
	if interestsOrDefault == "" {
		interestsOrDefault = "general tourism"
	}
	styleOrDefault := travelStyle
	if styleOrDefault == "" {
		styleOrDefault = "general travel"
	}

	return fmt.Sprintf(`
        Generate a detailed and highly specific travel plan for %d days in %s, %s.

        %s
        Return the response STRICTLY as a JSON object with the following structure:
        {
            "activities": [
                {
                    "time": "9:00 AM", (provide different times throughout the day)
                    "title": "Visit to [SPECIFIC PLACE NAME]",
                    "description": "Detailed description of the activity with specific information",
                    "location": "Actual address or area within %s",
                    "budget": "[REQUIRED] Approximate cost in local currency AND USD equivalent"
                }
            ],
            "packingList": ["item1", "item2", ...], (List of 10-15 items specific to %s, %s)
            "tips": ["tip1", "tip2", ...] (List of 5-8 local tips specific to %s, %s)
        }

        Please provide %d activities (4 activities per day: morning, noon, afternoon, evening).

        CRITICALLY IMPORTANT REQUIREMENTS:
        1. Be EXTREMELY SPECIFIC - ALWAYS use actual attraction names, landmarks, museums, restaurants, parks, etc.
        2. NEVER use generic descriptions like "local museum" or "central park" - ALWAYS use real place names
        3. For restaurants, ONLY suggest actual restaurant names that exist in %s and include their current address
        4. Include specific street names, neighborhoods, or districts where relevant
        5. For activities, include what makes each place special or interesting to visit
        6. Tailor all suggestions to the traveler's interests: %s
        7. Adapt recommendations to the travel style: %s
        8. BUDGET FIELD IS REQUIRED - base estimations on average costs in %s and allocate within the stated budget
        9. Include both local currency and USD equivalent in every budget figure
        10. Use current, verified addresses and include neighborhood/district names
        11. Include opening hours and the best times to visit to avoid crowds

        Create an authentic, detailed travel experience with specific places that someone could actually follow in %s, %s.
    `, days, city, country, context.String(), city, city, country, city, country,
		days*4, city, interestsOrDefault, styleOrDefault, city, city, country)
}

func getFallbackActivitiesPrompt(city, country string, dayNumber int) string {
	return fmt.Sprintf(`
        Generate 4 specific activities for day %d in %s, %s.
        Return the response STRICTLY as a JSON object with the following structure:
        {
            "activities": [
                {
                    "time": "9:00 AM",
                    "title": "Visit to [SPECIFIC PLACE NAME]",
                    "description": "Detailed description of the activity with specific information",
                    "location": "Actual address or area within %s",
                    "budget": "Approximate cost in local currency AND USD equivalent"
                }
            ]
        }

        CRITICALLY IMPORTANT REQUIREMENTS:
        1. Be EXTREMELY SPECIFIC - ALWAYS use actual attraction names, landmarks, museums, restaurants, parks, etc.
        2. NEVER use generic descriptions like "local museum" or "central park"
        3. For restaurants, ONLY suggest actual restaurant names that exist in %s
        4. Include specific street names, neighborhoods, or districts where relevant
        5. Include prices in both local currency and USD
        6. Use current, verified addresses
        7. Space the activities throughout the day (morning, noon, afternoon, evening)
    `, dayNumber, city, country, city, city)
}
