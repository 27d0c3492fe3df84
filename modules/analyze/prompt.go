package analyze

// 제품 분석 프롬프트 - 상업 촬영 관점의 시각적 특징 추출
const analyzePromptTemplate = `You are a professional product photographer analyzing a product for a commercial photoshoot.

Analyze the attached product images and describe:
1. Product category and type
2. Materials, textures, and surface finish
3. Colors (primary and accent)
4. Shape and distinctive design features
5. Any branding, labels, or text visible
6. Suggested photography considerations (reflective surfaces, transparency, small details)

%s

Product name: %s

Respond with a concise analysis in plain prose (no markdown, no bullet points). Keep it under 200 words.`
