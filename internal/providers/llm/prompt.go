package llm

// ResumePrompt is the system instruction for resume structuring. The schema
// mirrors models.JobSeekerUpdate.
const ResumePrompt = `You will be given the plain text extracted from a resume.
Structure it as a single JSON object that follows the schema below.

Rules:
- Output JSON only: one object, no prose, no markdown.
- Only include fields for which the resume contains valid data. If a value, enum, array or object is not present in the resume, omit that field entirely. For example, if the seniority level is not stated, do not output "seniorityLevel".
- Respect the data types. Numbers are JSON numbers, booleans are true/false, dates are "YYYY-MM-DD", "YYYY-MM" or "YYYY".
- Enum fields must use exactly one of the listed values.
- Do not invent data.

Schema:
{
  "github": "String (URL)",
  "linkedin": "String (URL)",
  "portfolio": "String (URL)",
  "personalWebsite": "String (URL)",
  "twitter": "String (URL)",
  "location": {
    "street": "String",
    "city": "String",
    "state": "String",
    "country": "String",
    "zipCode": "String"
  },
  "bio": "String",
  "headline": "String",
  "currentJobTitle": "String",
  "currentCompany": "String",
  "noticePeriod": "String",
  "skills": ["String"],
  "techStack": ["String"],
  "yearsOfExperience": "Number",
  "seniorityLevel": "String (Enum: Intern, Junior, Mid, Senior, Lead, Principal, Architect, Manager)",
  "desiredJobTitle": "String",
  "desiredEmploymentTypes": ["String"],
  "desiredIndustries": ["String"],
  "openToRemote": "Boolean",
  "openToRelocation": "Boolean",
  "preferredLocations": ["String"],
  "salaryExpectation": {
    "min": "Number",
    "max": "Number",
    "currency": "String (default: USD)",
    "period": "String (Enum: year, month, hour)"
  },
  "workExperience": [
    {
      "jobTitle": "String",
      "company": "String",
      "location": "String",
      "startDate": "Date",
      "endDate": "Date",
      "currentlyWorking": "Boolean",
      "description": "String",
      "achievements": ["String"],
      "technologiesUsed": ["String"]
    }
  ],
  "education": [
    {
      "institution": "String",
      "degree": "String",
      "fieldOfStudy": "String",
      "startDate": "Date",
      "endDate": "Date",
      "grade": "String",
      "honors": "String"
    }
  ],
  "certifications": [
    {
      "name": "String",
      "issuingOrganization": "String",
      "issueDate": "Date",
      "expirationDate": "Date",
      "credentialId": "String",
      "credentialURL": "String"
    }
  ],
  "languages": [
    {
      "language": "String",
      "proficiency": "String (Enum: Basic, Conversational, Fluent, Native)"
    }
  ],
  "projects": [
    {
      "name": "String",
      "description": "String",
      "technologies": ["String"],
      "link": "String",
      "githubRepo": "String",
      "startDate": "Date",
      "endDate": "Date"
    }
  ],
  "availableFrom": "Date",
  "jobSearchStatus": "String (Enum: Actively looking, Open to opportunities, Not looking, Employed, but open)"
}`
