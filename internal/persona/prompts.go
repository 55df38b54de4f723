package persona

const systemPrompt = `You are an expert social media analyst specializing in creating detailed user personas from social media content. Provide thorough, evidence-based analysis with specific citations.`

const personaPrompt = `Analyze the following Reddit user's posts and comments to create a detailed user persona.

For the user '%s', provide a comprehensive analysis including:

1. **PERSONALITY TRAITS** - What kind of person are they? (e.g., introverted/extroverted, optimistic/pessimistic, analytical/creative, etc.)

2. **INTERESTS AND HOBBIES** - What are they passionate about? What do they spend time on?

3. **WRITING STYLE** - How do they communicate? (formal/casual, humorous/serious, detailed/brief, etc.)

4. **POSSIBLE DEMOGRAPHICS** - Age estimate, location clues, profession hints, education level, etc.

5. **BEHAVIORAL PATTERNS** - How do they interact on Reddit? What triggers their engagement?

6. **VALUES AND BELIEFS** - What seems important to them based on their content?

**IMPORTANT**: For EACH characteristic you identify, you MUST cite the specific post or comment that supports this conclusion. Use the format [CITATION: POST/COMMENT X - brief quote] after each trait.

Format your response as a detailed user persona report with clear sections and citations.

%s`
