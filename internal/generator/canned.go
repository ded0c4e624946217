package generator

import (
	"context"

	"github.com/fernandadias/DiscoveryRAGAgentV2/internal/api"
)

// CannedProvider serves the demo corpus: one prepared markdown answer per
// objective, independent of the query text.
type CannedProvider struct{}

// NewCannedProvider creates the demo answer provider.
func NewCannedProvider() *CannedProvider { return &CannedProvider{} }

func (p *CannedProvider) Name() string { return "canned" }

// CannedTokens is the token usage reported for every canned answer.
const CannedTokens = 1250

func (p *CannedProvider) Generate(_ context.Context, _ string, objective api.Objective) (*Answer, error) {
	md, ok := cannedAnswers[objective]
	if !ok {
		md = cannedAnswers[api.ObjectiveInformative]
	}
	return &Answer{Markdown: md, TokensUsed: CannedTokens, Model: "canned"}, nil
}

var cannedAnswers = map[api.Objective]string{
	api.ObjectiveInformative: `## Summary
We identified several user profiles based on how they use the platform.

## Details
Our behavior analysis surfaced the following main profiles:

1. **Frequent Users**: Access the platform daily, mostly for quick transactions and balance checks. Around 35% of the user base.

2. **Credit Users**: Focused on credit and installment products. Tend to use the platform weekly and represent 25% of the base.

3. **Investment Users**: Mostly use the investment features, with longer and more detailed sessions. Represent 15% of the base.

4. **Occasional Users**: Access the platform monthly, usually for specific payments. Represent 25% of the base.

## Sources
- Behavior Analysis Report (Q1 2025)
- User Segmentation Survey (March 2025)
- Platform Analytics Data (January–April 2025)

## Information Gaps
- No detailed data on behavior across devices
- Missing information about the full cross-channel journey
- No correlation analysis between profiles and NPS`,

	api.ObjectiveHypothesis: `## Hypothesis Summary
The hypothesis of personalizing the home screen by user profile has strong potential to increase engagement.

## Strengths
- Aligned with behavior data showing distinct profiles
- Consistent with the experience-personalization strategy
- Potential to lift conversion on specific products
- Technically feasible with the current infrastructure

## Considerations and Risks
- Implementation and maintenance complexity
- Possible confusion for users who switch between profiles
- Requires extensive A/B testing
- Impact on application performance

## Alignment with Guidelines
The hypothesis fits the product guidelines well, especially the "Personalized Experience" and "Simplicity with Depth" principles.

## Recommendations
- Start with personalization limited to 2–3 home elements
- Add an explicit feedback mechanism
- Define clear success metrics
- Roll out gradually with control groups`,

	api.ObjectiveBenchmark: `## Comparative Summary
The benchmark analysis shows home personalization is a growing trend in the financial sector, with varying approaches and levels of sophistication.

## Market Analysis
- **Nubank**: Personalization based on recent usage and transaction history
- **Itaú**: Segmentation by financial profile with an investment emphasis
- **Mercado Pago**: Personalization driven by product usage recency
- **PicPay**: Personalization by declared goals

Most institutions roll personalization out gradually, starting with 30–40% of interface elements.

## Alignment with Best Practices
- Behavior-based personalization outperforms purely demographic approaches
- Transparency about personalization is a recommended practice
- Giving users control over personalization increases satisfaction
- A/B testing is essential before a full rollout

## Differentiation Opportunities
- Context-aware personalization (time of day, location)
- Integration with declared financial goals
- Personalizing navigation beyond the home screen
- Hybrid approach combining behavior and explicit preferences

## Recommendations
- Personalize in phases, starting with the highest-impact elements
- Build an explicit feedback loop on content relevance
- Consider a hybrid personalization approach
- Define clear success metrics for each phase`,

	api.ObjectiveObjectives: `## Alignment Summary
Home personalization based on user profiles is strongly aligned with the team's strategic objectives for 2025.

## Analysis by Objective
**1. Increase Engagement by 30%**
- Personalization can increase usage frequency
- More relevant content tends to increase session time
- Estimated alignment: High (85%)

**2. Improve Conversion on Key Products**
- Highlighting relevant products per profile can lift conversions
- Opportunity for contextual cross-selling
- Estimated alignment: Medium-High (75%)

**3. Reduce Friction in the User Journey**
- Faster access to frequent features
- Fewer clicks for common actions
- Estimated alignment: High (80%)

## Potential KPI Impact
- **DAU/MAU**: Potential 15–20% increase
- **Session Time**: Potential 25–30% increase
- **Conversion Rate**: Potential 10–15% increase on highlighted products
- **NPS**: Potential gain of 5–8 points

## Strengthening Opportunities
- Fold the user's explicit goals into personalization
- Define metrics per profile
- Build a per-segment performance dashboard

## Recommendations
- Prioritize implementation for Q3 2025
- Keep a control group for precise impact measurement
- Plan communication around the benefits of personalization
- Create a decision framework for conflicts between objectives`,
}
