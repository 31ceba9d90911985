package domain

// ConsolidationPrompt is the built-in generative consolidation prompt.
// It takes the representative topic count (%d) and the bulleted topic list (%s).
// The merge rules and target range encode product decisions and are kept as written.
const ConsolidationPrompt = `You are consolidating topics from app reviews. BE EXTREMELY AGGRESSIVE - aim for 15-25 final topics MAXIMUM.

Here are %d extracted topics:
%s

CRITICAL RULES - MERGE EVERYTHING SIMILAR:
1. **ALL positive feedback** → "Positive feedback" (good, great, excellent, amazing, love, helpful, friendly, fast, etc.)
2. **ALL negative delivery partner behavior** → "Delivery partner unprofessional" (rude, impolite, disrespectful, unprofessional, etc.)
3. **ALL delivery delays** → "Delivery delay" (late, delayed, slow, 2 hours, extreme delay, etc.)
4. **ALL food quality issues** → Merge into 2-3 categories ONLY:
   - "Food temperature issues" (cold, hot, lukewarm)
   - "Food freshness issues" (stale, spoiled, rotten, old)
   - "Food quality issues" (bad quality, taste, portion)
5. **ALL app technical issues** → Merge into 2 categories:
   - "App crashes/freezes" (crash, freeze, not responding, stuck)
   - "App performance issues" (slow, laggy, buggy, glitches)
6. **ALL feature removal/requests** → Use ONE topic per feature:
   - "10 minute delivery removed"
   - "24/7 service request"
7. **Ignore ALL grammar differences**: tense, plural, word order, articles
8. **Merge similar sentiment**: "good", "great", "excellent", "awesome" → "Positive feedback"

AGGRESSIVE MERGING EXAMPLES:
- "good service", "great app", "excellent delivery", "love it", "awesome", "amazing" → "Positive feedback"
- "delivery guy rude", "rude rider", "impolite partner", "disrespectful delivery" → "Delivery partner unprofessional"
- "food cold", "cold food", "food not hot", "lukewarm food" → "Food temperature issues"
- "app crash", "app freezes", "app not working", "app stuck" → "App crashes/freezes"
- "app slow", "app laggy", "app buggy", "app has bugs", "app glitchy" → "App performance issues"

TARGET: 15-25 CANONICAL TOPICS MAXIMUM. Be RUTHLESS in merging!

OUTPUT (JSON only, no markdown):
{
  "canonical_topics": [
    {
      "canonical_name": "Delivery delay",
      "variations": ["delivery delay 2 hours", "delivery delayed 2 hours", "2 hour delivery wait", "delivery extremely delayed"]
    },
    ...
  ]
}`
